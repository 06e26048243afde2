/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var (
	compatOldSchemaID string
	compatNewSchemaID string
)

var compatibilityCmd = &cobra.Command{
	Use:   "compatibility",
	Short: "Check compatibility between two schema versions",
	Long: `Compatibility compares two schemas sharing vendor/package/namespace/type
and reports a verdict (full, backward, forward, incompatible) with
structured reasons for every violation.`,
	Example: `  gts --path ./examples compatibility \
    --old-schema-id "gts.x.core.events.event.v1.0~" \
    --new-schema-id "gts.x.core.events.event.v1.1~"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		return writeJSON(store.CheckCompatibility(compatOldSchemaID, compatNewSchemaID))
	},
}

func init() {
	compatibilityCmd.Flags().StringVar(&compatOldSchemaID, "old-schema-id", "", "GTS ID of the old schema (required)")
	compatibilityCmd.Flags().StringVar(&compatNewSchemaID, "new-schema-id", "", "GTS ID of the new schema (required)")
	_ = compatibilityCmd.MarkFlagRequired("old-schema-id")
	_ = compatibilityCmd.MarkFlagRequired("new-schema-id")
	rootCmd.AddCommand(compatibilityCmd)
}
