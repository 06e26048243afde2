/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var brokenRefsCmd = &cobra.Command{
	Use:   "broken-refs",
	Short: "Report instances whose schema reference cannot be resolved",
	Long: `Broken-refs lists every instance whose schema-id does not resolve in
the store. A chained schema reference counts as resolved when its head
link is present.`,
	Example: `  gts --path ./examples broken-refs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		broken := store.BrokenReferences()
		return writeJSON(map[string]any{
			"count":  len(broken),
			"broken": broken,
		})
	},
}

func init() {
	rootCmd.AddCommand(brokenRefsCmd)
}
