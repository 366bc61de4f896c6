// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/utils"
)

const shutdownTimeout = 5 * time.Second

// MetricsServer serves GET /metrics and GET /healthz.
type MetricsServer struct {
	server *http.Server
	logger *logger.Logger
}

func NewMetricsServer(addr string, gatherer prometheus.Gatherer, logger *logger.Logger) (*MetricsServer, error) {
	if addr == "" {
		return nil, errNoAddress
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           newRouter(gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

func newRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

// Run implements workers.Worker. It listens until ctx is done, then shuts the
// server down gracefully.
func (m *MetricsServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", m.server.Addr, err)
	}
	return m.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (m *MetricsServer) Serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		m.logger.Info().Str("addr", ln.Addr().String()).Msg("metrics server listening")
		serveErr <- m.server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := m.server.Shutdown(shutdownCtx); err != nil {
		m.logger.Err(err).Msg("metrics server shutdown")
		return err
	}
	m.logger.Info().Msg("metrics server shut down gracefully")
	return nil
}
