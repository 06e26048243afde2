/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/GlobalTypeSystem/gts-go/server"
)

var (
	serverHost string
	serverPort int
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Short:   "Start the GTS HTTP server",
	Example: `  gts --path ./examples server --host 127.0.0.1 --port 8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()

		host := cliCfg.Host
		if cmd.Flags().Changed("host") {
			host = serverHost
		}
		port := cliCfg.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.NewServer(store, host, port, cliCfg.Verbose, logger)
		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverHost, "host", "127.0.0.1", "host to bind to")
	serverCmd.Flags().IntVar(&serverPort, "port", 8000, "port to listen on")
	rootCmd.AddCommand(serverCmd)
}
