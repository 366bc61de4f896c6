// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
)

const (
	defaultProbeInterval = 5 * time.Second
	defaultProbeTimeout  = 3 * time.Second
)

// ConnectivityProber pings the server periodically and tracks whether it is
// reachable. Subscribers are called on every online/offline transition.
//
// The prober starts optimistic: it reports online until a probe fails.
type ConnectivityProber struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration

	mu          sync.Mutex
	online      bool
	subscribers map[int]func(online bool)
	nextID      int
}

// NewConnectivityProber creates a prober. Non-positive durations fall back
// to 5s between probes and 3s per probe.
func NewConnectivityProber(pinger Pinger, interval, timeout time.Duration) *ConnectivityProber {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &ConnectivityProber{
		pinger:      pinger,
		interval:    interval,
		timeout:     timeout,
		online:      true,
		subscribers: make(map[int]func(bool)),
	}
}

func (p *ConnectivityProber) IsOnline() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Subscribe registers fn and returns a function that removes it.
func (p *ConnectivityProber) Subscribe(fn func(online bool)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

// Probe pings once and records the result. It returns the current state.
// A probe cut short by ctx itself leaves the state unchanged.
func (p *ConnectivityProber) Probe(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.pinger.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return p.IsOnline()
	}

	online := err == nil
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).
			Str("func", "ConnectivityProber.Probe").
			Msg("server unreachable")
	}
	p.set(ctx, online)
	return online
}

// Run implements [Worker]. The first probe happens immediately.
func (p *ConnectivityProber) Run(ctx context.Context) error {
	p.Probe(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.Probe(ctx)
		}
	}
}

func (p *ConnectivityProber) set(ctx context.Context, online bool) {
	p.mu.Lock()
	if p.online == online {
		p.mu.Unlock()
		return
	}
	p.online = online
	subs := make([]func(bool), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	logger.FromContext(ctx).Info().
		Str("func", "ConnectivityProber.set").
		Bool("online", online).
		Msg("connectivity changed")

	for _, fn := range subs {
		fn(online)
	}
}
