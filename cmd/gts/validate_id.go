/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

var validateIDFlag string

var validateIDCmd = &cobra.Command{
	Use:     "validate-id",
	Short:   "Validate a GTS ID format",
	Example: `  gts validate-id --gts-id "gts.x.core.events.event.v1~"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(gts.ValidateGtsID(validateIDFlag))
	},
}

func init() {
	validateIDCmd.Flags().StringVar(&validateIDFlag, "gts-id", "", "GTS ID to validate (required)")
	_ = validateIDCmd.MarkFlagRequired("gts-id")
	rootCmd.AddCommand(validateIDCmd)
}
