package schedule

import (
	"log/slog"
	"time"
)

// EngineConfig holds configuration options for the occurrence engine
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// Location calendar days are computed in. Nil means UTC.
	Location *time.Location

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// DefaultEngineConfig suits interactive previews, where the same rule is
// expanded repeatedly while it is being edited.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
}

// NewEngineWithConfig creates a new occurrence engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *ResultCache
	if config.CacheEnabled {
		cache = NewResultCache(config.CacheConfig)
	}

	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Engine{
		cache:    cache,
		config:   config,
		location: loc,
		logger:   logger,
	}
}
