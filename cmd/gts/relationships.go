/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var relationshipsID string

var relationshipsCmd = &cobra.Command{
	Use:     "resolve-relationships",
	Short:   "Resolve the schema relationship graph for an entity",
	Example: `  gts --path ./examples resolve-relationships --gts-id "gts.x.core.events.event.v1.0"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		return writeJSON(store.BuildSchemaGraph(relationshipsID))
	},
}

func init() {
	relationshipsCmd.Flags().StringVar(&relationshipsID, "gts-id", "", "GTS ID of the entity (required)")
	_ = relationshipsCmd.MarkFlagRequired("gts-id")
	rootCmd.AddCommand(relationshipsCmd)
}
