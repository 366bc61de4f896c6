// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from flags, environment variables, an optional JSON file
// and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds logging settings of the client process.
	App App `envPrefix:"APP_"`

	// Storage holds configuration of the local SQLite cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote diary API address and request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds intervals of background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// DotEnvPath is the optional path to a .env file. Defaults to ".env".
	DotEnvPath string `env:"DOTENV"`
}

// App holds process-level settings.
type App struct {
	// LogRole is the "role" field stamped on every log entry.
	// Env: APP_LOG_ROLE
	LogRole string `env:"LOG_ROLE"`

	// LogLevel is a zerolog level name (debug, info, warn, ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile is the file the client appends logs to. Empty means "logs"
	// next to the binary.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the local persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the SQLite database location.
type DB struct {
	// DSN is the SQLite file path or URI (e.g. "scribe-keeper.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Adapter holds settings of the remote diary API client.
type Adapter struct {
	// HTTPAddress is the base URL of the diary API. A bare "host:port" is
	// treated as http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every single remote call (e.g. "10s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds intervals of the client background workers.
type Workers struct {
	// ProbeInterval is how often the connectivity prober pings the server.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// SyncInterval is how often `watch --auto-sync` drains the queue.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Defaults applied to every field no other source sets.
const (
	DefaultAdapterAddress = "http://localhost:8080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultDSN            = "scribe-keeper.db"
	DefaultProbeInterval  = 5 * time.Second
	DefaultSyncInterval   = 30 * time.Second
	DefaultLogRole        = "client"
	DefaultLogLevel       = "info"
	DefaultDotEnvPath     = ".env"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogRole:  DefaultLogRole,
			LogLevel: DefaultLogLevel,
		},
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			ProbeInterval: DefaultProbeInterval,
			SyncInterval:  DefaultSyncInterval,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from all sources.
// flagCfg holds values already parsed from the command line (see
// [RegisterFlags]); it may be nil.
func GetStructuredConfig(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flagCfg).
		withDotEnv().
		withEnv().
		withJSON().
		withDefaults().
		build()
}
