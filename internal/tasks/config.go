package tasks

import (
	"time"

	"github.com/mrlokans/bookexchange/internal/config"
)

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 1
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often backlite purges finished tasks. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}

// ConfigFrom builds a Config from environment settings, keeping defaults
// for values that are unset.
func ConfigFrom(env config.Tasks) Config {
	cfg := DefaultConfig()
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.ReleaseAfter > 0 {
		cfg.ReleaseAfter = env.ReleaseAfter
	}
	if env.CleanupInterval > 0 {
		cfg.CleanupInterval = env.CleanupInterval
	}
	return cfg
}
