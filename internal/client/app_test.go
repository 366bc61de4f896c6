package client

import (
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/service"
	"github.com/MKhiriev/scribe-keeper/internal/utils"
	"github.com/MKhiriev/scribe-keeper/models"
)

func newTestApp(t *testing.T, addr string) *App {
	t.Helper()
	cfg := &config.ClientConfig{
		App:     config.ClientApp{LogRole: "test"},
		Adapter: config.ClientAdapter{HTTPAddress: addr, RequestTimeout: time.Second},
		Storage: config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "app.db")}},
		Workers: config.ClientWorkers{ProbeInterval: time.Hour, SyncInterval: time.Hour},
	}

	app, err := NewApp(t.Context(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })
	return app
}

func TestNewApp_BadAddress(t *testing.T) {
	cfg := &config.ClientConfig{
		Adapter: config.ClientAdapter{HTTPAddress: "", RequestTimeout: time.Second},
		Storage: config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "app.db")}},
	}

	_, err := NewApp(t.Context(), cfg, logger.Nop())

	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	app := newTestApp(t, srv.URL)

	assert.True(t, app.Connect(t.Context()))
	assert.False(t, app.Services.Coordinator.IsOffline())

	// a second call probes again but keeps one watcher
	srv.Close()
	assert.False(t, app.Connect(t.Context()))
	assert.True(t, app.Services.Coordinator.IsOffline())
}

func TestResume(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	err := app.Resume(t.Context(), nil)
	assert.ErrorIs(t, err, service.ErrNoStoredSession)
}

func TestWorkers(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	ws, err := app.Workers(true, "127.0.0.1:0")
	require.NoError(t, err)
	assert.NotNil(t, ws)

	ws, err = app.Workers(false, "")
	require.NoError(t, err)
	assert.NotNil(t, ws)
}

// freeAddr returns a local address nothing listens on yet.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// serveOn starts handler on addr and stops it at cleanup.
func serveOn(t *testing.T, addr string, handler http.HandlerFunc) {
	t.Helper()
	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	srv := httptest.NewUnstartedServer(handler)
	srv.Listener = ln
	srv.Start()
	t.Cleanup(srv.Close)
}

func TestSyncOnReconnect(t *testing.T) {
	addr := freeAddr(t)

	app := newTestApp(t, "http://"+addr)
	app.Session.Begin(models.StoredSession{User: models.User{ID: "u-1"}})

	stop := app.SyncOnReconnect(t.Context())
	defer stop()

	require.False(t, app.Connect(t.Context()))
	assert.Zero(t, flushes(t, app))

	serveOn(t, addr, func(w http.ResponseWriter, _ *http.Request) {})

	require.True(t, app.Prober.Probe(t.Context()))
	assert.False(t, app.Services.Coordinator.IsOffline())
	assert.Eventually(t, func() bool {
		return flushes(t, app) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSyncOnReconnect_DrainDoesNotBlockProber(t *testing.T) {
	addr := freeAddr(t)

	app := newTestApp(t, "http://"+addr)
	app.Session.Begin(models.StoredSession{User: models.User{ID: "u-1"}})

	path := "a.txt"
	_, err := app.storages.SyncQueue.Enqueue(t.Context(), models.SyncQueueItem{
		UserID:      "u-1",
		Op:          models.SyncOperationUpsert,
		StoragePath: path,
		Payload:     &models.EntryRequest{StoragePath: &path, CreatedAt: "2026-01-01T08:00:00"},
		EnqueuedAt:  "2026-01-01T08:00:00",
	})
	require.NoError(t, err)

	stop := app.SyncOnReconnect(t.Context())
	defer stop()
	require.False(t, app.Connect(t.Context()))

	release := make(chan struct{})
	serveOn(t, addr, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			<-release
			utils.WriteError(w, "Server unavailable", http.StatusServiceUnavailable)
		}
	})

	probed := make(chan bool, 1)
	go func() { probed <- app.Prober.Probe(t.Context()) }()

	select {
	case online := <-probed:
		assert.True(t, online)
	case <-time.After(time.Second):
		close(release)
		t.Fatal("probe waited for the drain")
	}

	assert.Eventually(t, app.Services.Coordinator.IsSyncing, time.Second, 10*time.Millisecond)
	close(release)

	assert.Eventually(t, func() bool {
		return flushes(t, app) == 1
	}, 2*time.Second, 10*time.Millisecond)

	items, err := app.storages.SyncQueue.List(t.Context(), "u-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint32(1), items[0].RetryCount)
}

func flushes(t *testing.T, app *App) float64 {
	t.Helper()
	families, err := app.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "scribe_keeper_sync_flushes_total" {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}
