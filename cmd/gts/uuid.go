/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

var uuidIDFlag string

var uuidCmd = &cobra.Command{
	Use:     "uuid",
	Short:   "Generate the deterministic UUID for a GTS ID",
	Example: `  gts uuid --gts-id "gts.x.core.events.event.v1~"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(gts.IDToUUID(uuidIDFlag))
	},
}

func init() {
	uuidCmd.Flags().StringVar(&uuidIDFlag, "gts-id", "", "GTS ID (required)")
	_ = uuidCmd.MarkFlagRequired("gts-id")
	rootCmd.AddCommand(uuidCmd)
}
