// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the client runtime from configuration.
//
// It wires the local store, the remote adapter, the session holder, client
// services and background workers into a single [App] whose lifetime is one
// CLI invocation.
package client
