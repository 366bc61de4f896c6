// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
)

// RegisterFlags registers all configuration flags on fs and returns the
// config they write into. The returned value is filled once fs is parsed,
// either directly or through a command framework that adopts fs.
//
// Flags:
//
//	-a adapter (server) address, e.g. http://localhost:8080
//	-d SQLite database DSN
//	-c/-config json file path with configs
//	-env .env file path
//	-request-timeout remote request timeout (e.g., "10s")
//	-probe-interval connectivity probe interval (e.g., "5s")
//	-sync-interval auto-sync interval for watch mode (e.g., "30s")
//	-log-level zerolog level
//	-log-file log file path
func RegisterFlags(fs *flag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVar(&cfg.Adapter.HTTPAddress, "a", "", "Diary API address")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "SQLite database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.DotEnvPath, "env", "", ".env file path")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 10s)")
	fs.DurationVar(&cfg.Workers.ProbeInterval, "probe-interval", 0, "Connectivity probe interval (e.g., 5s)")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Auto-sync interval for watch mode (e.g., 30s)")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Log file path")

	return cfg
}

// ParseFlags parses args with a fresh flag set and returns the resulting
// config.
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("scribe-keeper", flag.ContinueOnError)
	cfg := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
