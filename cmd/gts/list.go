/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List entities in canonical identifier order",
	Example: `  gts --path ./examples list --limit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		return writeJSON(store.List(listLimit))
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum number of results")
	rootCmd.AddCommand(listCmd)
}
