/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var validateInstanceID string

var validateInstanceCmd = &cobra.Command{
	Use:   "validate-instance",
	Short: "Validate an instance against its schema",
	Long: `Validate an instance loaded from --path against the schema its
schema-id field references. Structural validation is delegated to the JSON
Schema validator; GTS-specific x-gts-ref constraints are checked on top.`,
	Example: `  gts --path ./examples validate-instance --gts-id "gts.x.core.events.event.v1.0"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		result := store.ValidateInstance(validateInstanceID)
		if result.OK {
			if err := store.ValidateInstanceWithXGtsRef(validateInstanceID); err != nil {
				result.OK = false
				result.Error = err.Error()
			}
		}
		return writeJSON(result)
	},
}

func init() {
	validateInstanceCmd.Flags().StringVar(&validateInstanceID, "gts-id", "", "GTS ID of the instance (required)")
	_ = validateInstanceCmd.MarkFlagRequired("gts-id")
	rootCmd.AddCommand(validateInstanceCmd)
}
