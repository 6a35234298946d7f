package config

import "time"

// ServerConfig holds configuration for the scoop API server.
type ServerConfig struct {
	Addr      string // Listen address (default ":8080")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	DBPath    string // SQLite database path (default ~/.scoop/scoop.db, ":memory:" for testing)

	RatePerSecond float64 // Simulation requests admitted per second (0 disables limiting)
	RateBurst     int     // Burst size for the simulation rate limiter
	MaxJobs       int     // Maximum jobs accepted in one simulation request
	MaxSlices     int     // Maximum processing slices one simulation may produce
	MaxBodyBytes  int64   // Maximum simulation request body size (0 for no limit)

	RetentionMaxAge  time.Duration // Delete runs older than this (0 keeps them)
	RetentionMaxRuns int           // Keep at most this many runs (0 for no limit)
	PruneInterval    time.Duration // How often retention rules are applied
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
		RatePerSecond: 10,
		RateBurst:     20,
		MaxJobs:       1000,
		MaxSlices:     100000,
		MaxBodyBytes:  1 << 20,
		PruneInterval: time.Hour,
	}
}
