// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from variables such as ADAPTER_ADDRESS and
// STORAGE_DB_DSN, following the env/envPrefix tags. Unset variables leave
// zero values for the lower-priority sources to fill during the merge.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return fmt.Errorf("parse client environment: %w", err)
	}
	return nil
}
