/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

var (
	queryExpr  string
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query entities using an expression",
	Long: `Query filters entities with a GTS query expression:

	pattern [ '[' filter ']' ] [ '@' attr ]

The pattern may contain wildcards in any segment. Filters combine
comparisons with 'and' and 'or'; the '@attr' selector returns attribute
values instead of identifiers.`,
	Example: `  gts --path ./examples query --expr 'gts.x.core.*[status="active"]@status'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		return writeJSON(store.Query(queryExpr, queryLimit))
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryExpr, "expr", "", "query expression (required)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 100, "maximum number of results")
	_ = queryCmd.MarkFlagRequired("expr")
	rootCmd.AddCommand(queryCmd)
}
