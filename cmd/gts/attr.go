/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var attrWithPath string

var attrCmd = &cobra.Command{
	Use:     "attr",
	Short:   "Get an attribute value from a GTS entity",
	Example: `  gts --path ./examples attr --gts-with-path "gts.x.core.events.event.v1.0@payload.status"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		return writeJSON(store.GetAttribute(attrWithPath))
	},
}

func init() {
	attrCmd.Flags().StringVar(&attrWithPath, "gts-with-path", "", "GTS ID with attribute path (required)")
	_ = attrCmd.MarkFlagRequired("gts-with-path")
	rootCmd.AddCommand(attrCmd)
}
