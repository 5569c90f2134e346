// Package gconfig loads graphbeacon server configuration from the
// environment, matching spec §6's minimal external-interface contract
// (just PORT), with an optional YAML file layer for settings beyond the
// core test harness's requirements — the same two-tier shape the teacher
// corpus uses (environment variables as the primary source, an optional
// file overlay), rendered here with gopkg.in/yaml.v3 rather than the
// teacher's Neo4j-flavored environment-variable surface, since this
// module has nothing analogous to configure.
package gconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server entrypoint needs to start listening
// and seed its embedded store.
type Config struct {
	// Port is the TCP port to listen on (env PORT, spec §6). Required; no
	// default is part of the core contract.
	Port int `yaml:"port"`

	// DefaultAccountSecret, if non-empty, seeds the datastore with a
	// default account at the all-zero UUID holding this secret
	// (graphstore.WithDefaultAccount), matching spec.md §4.4/§8 scenario
	// S1. Optional: most deployments should create real accounts instead.
	DefaultAccountSecret string `yaml:"default_account_secret"`
}

// Load builds a Config from the PORT environment variable, optionally
// overlaying a YAML file at path if path is non-empty. Environment
// variables always take precedence over the file, matching the teacher's
// env-first layering.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("gconfig: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("gconfig: parse %s: %w", path, err)
		}
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("gconfig: PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}

	if cfg.Port == 0 {
		return nil, fmt.Errorf("gconfig: PORT is required")
	}

	return cfg, nil
}
