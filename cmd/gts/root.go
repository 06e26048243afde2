/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/cmd/gts/internal/cliconfig"
	"github.com/GlobalTypeSystem/gts-go/internal/gtslog"
)

var (
	flagVerbose int
	flagConfig  string
	flagPath    string

	cliCfg *cliconfig.Config
	logger *gtslog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gts",
	Short: "GTS helpers CLI",
	Long: `gts identifies, parses, matches, relates, and evolves typed data
across organizations using GTS identifiers.

Entities are loaded from --path (comma-separated files or directories);
configuration may also come from a config file (--config, default ./gts.yaml)
or GTS_* environment variables, with flags taking precedence.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliconfig.Load(flagConfig, cmd.Flags())
		if err != nil {
			return err
		}
		cliCfg = cfg

		if cliCfg.Verbose > 0 {
			logger, err = gtslog.New("dev")
			if err != nil {
				return err
			}
		} else {
			logger = gtslog.Noop()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagVerbose, "verbose", "v", 0, "verbosity level (0=silent, 1=info, 2=debug)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a gts config file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&flagPath, "path", "", "comma-separated json/schema files or directories to load")
}
