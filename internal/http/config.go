package http

import (
	"time"
)

const (
	// DefaultChunkSize is the largest read handed to the staging file at once.
	DefaultChunkSize = 1024 * 1024
	// DefaultStagingSuffix marks an in-progress file next to its final name.
	DefaultStagingSuffix = ".tmp"
)

type ConfigOption func(*Config)

type Config struct {
	ChunkSize     int               `json:"chunkSize"`
	StagingSuffix string            `json:"stagingSuffix"`
	Headers       map[string]string `json:"headers,omitempty"`

	now func() time.Time
}

func defaultConfig() *Config {
	return &Config{
		ChunkSize:     DefaultChunkSize,
		StagingSuffix: DefaultStagingSuffix,
		Headers:       make(map[string]string),
		now:           time.Now,
	}
}

func WithChunkSize(size int) ConfigOption {
	return func(cfg *Config) {
		if size <= 0 {
			size = DefaultChunkSize
		}

		cfg.ChunkSize = size
	}
}

func WithStagingSuffix(suffix string) ConfigOption {
	return func(cfg *Config) {
		if suffix == "" {
			suffix = DefaultStagingSuffix
		}

		cfg.StagingSuffix = suffix
	}
}

func WithHeaders(headers map[string]string) ConfigOption {
	return func(cfg *Config) {
		cfg.Headers = headers
	}
}

// WithClock replaces the wall clock used for speed and ETA.
func WithClock(now func() time.Time) ConfigOption {
	return func(cfg *Config) {
		if now != nil {
			cfg.now = now
		}
	}
}
