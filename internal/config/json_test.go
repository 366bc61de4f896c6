package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	p := writeTempFile(t, "config.json", `{
		"app": {"log_role": "cli", "log_level": "debug", "log_file": "/tmp/l"},
		"adapter": {"http_address": "http://localhost:8080", "request_timeout": "30s"},
		"storage": {"db": {"dsn": "diary.db"}},
		"workers": {"probe_interval": "1s", "sync_interval": 60000000000}
	}`)

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cli", cfg.App.LogRole)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "/tmp/l", cfg.App.LogFile)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "diary.db", cfg.Storage.DB.DSN)
	assert.Equal(t, time.Second, cfg.Workers.ProbeInterval)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	cfg, err := parseJSON("definitely-does-not-exist.json")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	p := writeTempFile(t, "bad.json", `{ this is not json }`)

	cfg, err := parseJSON(p)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1h30m"`), &d))
	assert.Equal(t, 90*time.Minute, time.Duration(d))

	out, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"5s"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
}
