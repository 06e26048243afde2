/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package cliconfig loads the CLI's layered configuration: command-line
// flags override environment variables (GTS_*), which override an optional
// config file, which overrides built-in defaults. The identifier-extraction
// field lists feed gts.GtsConfig; everything else stays in the CLI layer
// and never reaches the core package.
package cliconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/GlobalTypeSystem/gts-go/gts"
)

// Config holds the resolved CLI configuration.
type Config struct {
	Verbose int    `mapstructure:"verbose"`
	Path    string `mapstructure:"path"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`

	EntityIDFields []string `mapstructure:"entity_id_fields"`
	SchemaIDFields []string `mapstructure:"schema_id_fields"`
}

// Load resolves the configuration. configFile may be empty, in which case
// an optional gts.yaml/gts.json in the working directory is consulted.
// flags, when non-nil, binds the given flag set on top (flags win).
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("verbose", 0)
	v.SetDefault("path", "")
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8000)

	v.SetEnvPrefix("GTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("gts")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for _, key := range []string{"verbose", "path", "host", "port"} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Paths splits the comma-separated path specification.
func (c *Config) Paths() []string {
	if c.Path == "" {
		return nil
	}
	parts := strings.Split(c.Path, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// GtsConfig returns the identifier-extraction configuration for the core
// package, or nil when the defaults apply.
func (c *Config) GtsConfig() *gts.GtsConfig {
	if len(c.EntityIDFields) == 0 && len(c.SchemaIDFields) == 0 {
		return nil
	}
	base := gts.DefaultGtsConfig()
	if len(c.EntityIDFields) > 0 {
		base.EntityIDFields = c.EntityIDFields
	}
	if len(c.SchemaIDFields) > 0 {
		base.SchemaIDFields = c.SchemaIDFields
	}
	return base
}
