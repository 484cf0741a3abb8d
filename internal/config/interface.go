package config

import (
	"context"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads every manifest reachable from paths and merges them into a
	// single model. Paths that do not exist are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
