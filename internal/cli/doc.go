// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the scribe-keeper command tree on top of cobra.
//
// Every command builds a fresh [client.App] from the merged configuration,
// restores the stored session and, when it touches plaintext, prompts for
// the passphrase. The encryption key never outlives the process.
package cli
