/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/GlobalTypeSystem/gts-go/gts"
	"github.com/GlobalTypeSystem/gts-go/internal/gtslog"
	"github.com/GlobalTypeSystem/gts-go/server"
)

func main() {
	host := pflag.String("host", "127.0.0.1", "host to bind to")
	port := pflag.Int("port", 8000, "port to listen on")
	verbose := pflag.IntP("verbose", "v", 1, "verbosity level (0=silent, 1=info, 2=debug)")
	logMode := pflag.String("log-mode", "prod", "log encoder: dev or prod")
	path := pflag.String("path", "", "comma-separated json/schema files or directories to load")
	pflag.Parse()

	logger, err := gtslog.New(*logMode)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	var reader gts.GtsReader
	if *path != "" {
		paths := strings.Split(*path, ",")
		for i := range paths {
			paths[i] = strings.TrimSpace(paths[i])
		}
		reader = gts.NewGtsFileReader(paths, nil)
	}
	store := gts.NewGtsStore(reader)
	logger.Info("store loaded", "entities", store.Count())

	srv := server.NewServer(store, *host, *port, *verbose, logger)
	if err := srv.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
