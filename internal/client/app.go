// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/scribe-keeper/internal/adapter"
	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/metrics"
	"github.com/MKhiriev/scribe-keeper/internal/server"
	"github.com/MKhiriev/scribe-keeper/internal/service"
	"github.com/MKhiriev/scribe-keeper/internal/session"
	"github.com/MKhiriev/scribe-keeper/internal/store"
	"github.com/MKhiriev/scribe-keeper/internal/workers"
)

type App struct {
	Services *service.ClientServices
	Session  *session.Session
	Prober   *workers.ConnectivityProber
	Registry *prometheus.Registry

	storages  *store.ClientStorages
	logger    *logger.Logger
	stopWatch func()
	drains    sync.WaitGroup
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	sess := session.New()

	return &App{
		Services: service.NewClientServices(storages, serverAdapter, sess, metrics.NewSyncMetrics(registry), cfg.Workers.SyncInterval),
		Session:  sess,
		Prober:   workers.NewConnectivityProber(serverAdapter, cfg.Workers.ProbeInterval, cfg.Adapter.RequestTimeout),
		Registry: registry,
		storages: storages,
		logger:   log,
	}, nil
}

// Connect probes the server once and lets the coordinator follow the
// prober from now on. It reports whether the server answered.
func (a *App) Connect(ctx context.Context) bool {
	online := a.Prober.Probe(ctx)
	if a.stopWatch == nil {
		a.stopWatch = a.Services.Coordinator.Watch(ctx, a.Prober)
	}
	return online
}

// Resume restores the stored session and, when passphrase is not nil,
// unlocks it with the passphrase it returns.
func (a *App) Resume(ctx context.Context, passphrase func() (string, error)) error {
	if _, err := a.Services.AuthService.Restore(ctx); err != nil {
		return err
	}
	if passphrase == nil {
		return nil
	}

	p, err := passphrase()
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	return a.Services.AuthService.Unlock(ctx, p)
}

// Workers returns the background loops of the watch mode: the prober, the
// periodic sync job when autoSync is set, and the metrics server when
// metricsAddr is not empty.
func (a *App) Workers(autoSync bool, metricsAddr string) (*workers.Workers, error) {
	list := []workers.Worker{a.Prober}
	if autoSync {
		list = append(list, a.Services.SyncJob)
	}
	if metricsAddr != "" {
		ms, err := server.NewMetricsServer(metricsAddr, a.Registry, a.logger)
		if err != nil {
			return nil, err
		}
		list = append(list, ms)
	}
	return workers.NewWorkers(list...), nil
}

// SyncOnReconnect drains the queue on every offline→online transition until
// the returned function is called. Each drain runs on its own goroutine so
// the prober is never held up; Close waits for running drains.
func (a *App) SyncOnReconnect(ctx context.Context) func() {
	return a.Prober.Subscribe(func(online bool) {
		if !online {
			return
		}
		// subscribers run in no particular order
		a.Services.Coordinator.SetOffline(false)
		a.drains.Go(func() {
			if _, err := a.Services.Coordinator.SyncNow(ctx); err != nil {
				a.logger.Err(err).Str("func", "App.SyncOnReconnect").Msg("sync after reconnect failed")
			}
		})
	})
}

func (a *App) Close() error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.Services.SyncJob.Stop()
	a.drains.Wait()

	if err := a.storages.Close(); err != nil {
		return fmt.Errorf("close local storage: %w", err)
	}
	return nil
}
