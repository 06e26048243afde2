/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

var parseIDFlag string

var parseIDCmd = &cobra.Command{
	Use:     "parse-id",
	Short:   "Parse a GTS ID into its components",
	Example: `  gts parse-id --gts-id "gts.x.core.events.event.v1.2"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(gts.ParseGtsID(parseIDFlag))
	},
}

func init() {
	parseIDCmd.Flags().StringVar(&parseIDFlag, "gts-id", "", "GTS ID to parse (required)")
	_ = parseIDCmd.MarkFlagRequired("gts-id")
	rootCmd.AddCommand(parseIDCmd)
}
