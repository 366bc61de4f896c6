// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the optional local HTTP endpoint of the watch mode.
//
// It exposes the sync metrics in the Prometheus text format and a liveness
// probe, and shuts down gracefully when its context ends.
package server
