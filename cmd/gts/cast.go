/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var (
	castFromID     string
	castToSchemaID string
)

var castCmd = &cobra.Command{
	Use:   "cast",
	Short: "Cast an instance to a target minor schema version",
	Example: `  gts --path ./examples cast \
    --from-id "gts.x.core.events.event.v1.0" \
    --to-schema-id "gts.x.core.events.event.v1.1~"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		result, err := store.Cast(castFromID, castToSchemaID)
		if err != nil {
			return err
		}
		return writeJSON(result)
	},
}

func init() {
	castCmd.Flags().StringVar(&castFromID, "from-id", "", "GTS ID of the instance to cast (required)")
	castCmd.Flags().StringVar(&castToSchemaID, "to-schema-id", "", "GTS ID of the target schema (required)")
	_ = castCmd.MarkFlagRequired("from-id")
	_ = castCmd.MarkFlagRequired("to-schema-id")
	rootCmd.AddCommand(castCmd)
}
