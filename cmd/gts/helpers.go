/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"encoding/json"
	"os"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

// newStore builds a store from the resolved configuration, loading entities
// from --path when set.
func newStore() *gts.GtsStore {
	var reader gts.GtsReader

	if paths := cliCfg.Paths(); len(paths) > 0 {
		reader = gts.NewGtsFileReader(paths, cliCfg.GtsConfig())
		logger.Debug("loading entities", "paths", paths)
	}

	store := gts.NewGtsStore(reader)
	if reader != nil {
		logger.Info("store loaded", "entities", store.Count())
		for _, finding := range store.IngestErrors() {
			logger.Warn("skipped document", "source", finding.SourcePath, "reason", finding.Message)
		}
	}
	return store
}

// writeJSON writes a value as indented JSON to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readJSONFile loads a JSON document from a file path.
func readJSONFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var content map[string]any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	return content, nil
}
