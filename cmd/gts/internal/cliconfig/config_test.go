/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	require.Equal(t, 0, cfg.Verbose)
	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 8000, cfg.Port)
	require.Empty(t, cfg.Path)
	require.Nil(t, cfg.GtsConfig())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "gts.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"verbose: 2\nport: 9000\npath: ./schemas\nentity_id_fields:\n  - customId\n"), 0o644))

	cfg, err := Load(file, nil)
	require.NoError(t, err)

	require.Equal(t, 2, cfg.Verbose)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, []string{"./schemas"}, cfg.Paths())

	gtsCfg := cfg.GtsConfig()
	require.NotNil(t, gtsCfg)
	require.Equal(t, []string{"customId"}, gtsCfg.EntityIDFields)
	// Schema field list keeps its defaults when the file omits it.
	require.Contains(t, gtsCfg.SchemaIDFields, "$schema")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "gts.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\n"), 0o644))

	t.Setenv("GTS_PORT", "9100")

	cfg, err := Load(file, nil)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Port)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "gts.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\nverbose: 2\n"), 0o644))

	t.Setenv("GTS_PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8000, "")
	flags.Int("verbose", 0, "")
	require.NoError(t, flags.Parse([]string{"--port", "9200"}))

	cfg, err := Load(file, flags)
	require.NoError(t, err)

	require.Equal(t, 9200, cfg.Port)
	// Flag left at its default does not shadow the file value.
	require.Equal(t, 2, cfg.Verbose)
}

func TestPaths_CommaSeparated(t *testing.T) {
	cfg := &Config{Path: "./a, ./b ,,./c"}
	require.Equal(t, []string{"./a", "./b", "./c"}, cfg.Paths())
}

func TestLoad_MissingExplicitFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}
