// Package pagination provides offset-based paging over the catalog's
// creation-ordered listings.
package pagination

import (
	"periodical/pkg/config"
)

// Config holds the paging defaults and bounds.
type Config struct {
	DefaultPage  int // page used when the query omits it
	DefaultLimit int // items per page used when the query omits it
	MaxLimit     int // largest accepted limit
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT,
// falling back to DefaultConfig. A default limit above the max is capped.
func LoadFromEnv() Config {
	cfg := DefaultConfig()
	cfg.DefaultLimit = config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.MaxLimit = config.GetEnvInt("PAGINATION_MAX_LIMIT", cfg.MaxLimit)
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = DefaultConfig().MaxLimit
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(DefaultConfig().DefaultLimit, cfg.MaxLimit)
	}
	return cfg
}
