// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics exposes prometheus instruments for the sync engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scribe_keeper"

// Outcome labels for [SyncMetrics.ObserveItem].
const (
	OutcomeSynced = "synced"
	OutcomeFailed = "failed"
	// OutcomeCreated marks an upsert that fell back to create after a 404.
	OutcomeCreated = "created"
)

type SyncMetrics struct {
	items    *prometheus.CounterVec
	pending  prometheus.Gauge
	flushes  prometheus.Counter
	duration prometheus.Histogram
}

// NewSyncMetrics creates the instruments and registers them with reg. A nil
// reg leaves them unregistered, which is what tests and one-shot commands use.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "items_total",
			Help:      "Processed sync queue items by operation and outcome.",
		}, []string{"op", "outcome"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pending_items",
			Help:      "Sync queue items waiting for the active user.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "flushes_total",
			Help:      "Queue drain runs started.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "flush_duration_seconds",
			Help:      "Wall time of one queue drain run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.items, m.pending, m.flushes, m.duration)
	}

	return m
}

func (m *SyncMetrics) ObserveItem(op, outcome string) {
	m.items.WithLabelValues(op, outcome).Inc()
}

func (m *SyncMetrics) SetPending(n int) {
	m.pending.Set(float64(n))
}

// ObserveFlush records one drain run that started at start.
func (m *SyncMetrics) ObserveFlush(start time.Time) {
	m.flushes.Inc()
	m.duration.Observe(time.Since(start).Seconds())
}
