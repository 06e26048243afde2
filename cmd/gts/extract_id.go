/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

var extractFileFlag string

var extractIDCmd = &cobra.Command{
	Use:     "extract-id",
	Short:   "Extract entity and schema identifiers from a JSON document",
	Example: `  gts extract-id --file ./event.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readJSONFile(extractFileFlag)
		if err != nil {
			return err
		}
		return writeJSON(gts.ExtractID(content, cliCfg.GtsConfig()))
	},
}

func init() {
	extractIDCmd.Flags().StringVar(&extractFileFlag, "file", "", "path to a JSON document (required)")
	_ = extractIDCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractIDCmd)
}
