/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

var (
	matchPattern   string
	matchCandidate string
)

var matchIDCmd = &cobra.Command{
	Use:     "match-id-pattern",
	Short:   "Match a GTS ID against a pattern",
	Example: `  gts match-id-pattern --pattern "gts.x.core.events.*" --candidate "gts.x.core.events.event.v1~"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(gts.MatchIDPattern(matchCandidate, matchPattern))
	},
}

func init() {
	matchIDCmd.Flags().StringVar(&matchPattern, "pattern", "", "pattern to match against (required)")
	matchIDCmd.Flags().StringVar(&matchCandidate, "candidate", "", "candidate GTS ID (required)")
	_ = matchIDCmd.MarkFlagRequired("pattern")
	_ = matchIDCmd.MarkFlagRequired("candidate")
	rootCmd.AddCommand(matchIDCmd)
}
