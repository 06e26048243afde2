/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the GTS version",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("gts version unknown")
			return
		}
		fmt.Printf("gts version %s\n", info.Main.Version)
		if cliCfg.Verbose > 0 {
			fmt.Printf("go version %s\n", info.GoVersion)
			fmt.Printf("path %s\n", info.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
