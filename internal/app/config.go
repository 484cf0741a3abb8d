package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories

	// Eval lists the parameter paths to print. Empty means every output pin.
	Eval []string
	// Set lists "path=value" overrides applied after the scene is built.
	Set []string
	// Watch keeps the scene running: node hooks start, manifest edits are
	// applied live and evaluated values are printed on every change.
	Watch bool
	// ListTypes prints the registered node types instead of running.
	ListTypes bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// Assignment is one parsed -set override.
type Assignment struct {
	Path  string
	Value string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 && !cfg.ListTypes {
		return nil, errors.New("at least one manifest path is required")
	}
	if _, err := cfg.Assignments(); err != nil {
		return nil, err
	}
	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// Assignments parses the Set entries.
func (c *Config) Assignments() ([]Assignment, error) {
	out := make([]Assignment, 0, len(c.Set))
	for _, s := range c.Set {
		path, value, ok := strings.Cut(s, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid -set %q: expected path=value", s)
		}
		out = append(out, Assignment{Path: path, Value: value})
	}
	return out, nil
}
