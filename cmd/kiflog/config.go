package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds encoder and batch options loadable from a YAML file.
// Command line flags override config file values.
type Config struct {
	QuotesAtoms   bool   `yaml:"quotes_atoms"`
	FunctorPrefix string `yaml:"functor_prefix"`
	AtomPrefix    string `yaml:"atom_prefix"`
	HelperClauses bool   `yaml:"helper_clauses"`
	Workers       int    `yaml:"workers"`
}

// loadConfig reads a YAML config file. An empty path yields the zero
// config (unquoted, unprefixed, sequential defaults).
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
