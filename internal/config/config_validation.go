// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks the merged [StructuredConfig]. Only values that can never
// be valid are rejected here; completeness is checked on the client view.
func (cfg *StructuredConfig) validate() error {
	if cfg.Adapter.RequestTimeout < 0 || cfg.Workers.ProbeInterval < 0 || cfg.Workers.SyncInterval < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if strings.Contains(cfg.Adapter.HTTPAddress, "://") {
		if _, err := url.ParseRequestURI(cfg.Adapter.HTTPAddress); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAdapterConfigs, err)
		}
	}

	if cfg.Workers.ProbeInterval <= 0 || cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.LogRole == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
