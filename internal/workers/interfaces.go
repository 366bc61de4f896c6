// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the long-lived background loops of the client: the
// connectivity prober and the periodic sync job. A [Workers] aggregate runs
// them together and stops all of them when one fails or the context ends.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the worker
// fails; a clean shutdown returns nil.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Pinger checks that the remote API answers. Any error means unreachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
