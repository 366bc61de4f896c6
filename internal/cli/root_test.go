package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/scribe-keeper/models"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(models.AppBuildInfo{})
	require.NotNil(t, cmd)
	assert.Equal(t, "scribe-keeper", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(models.AppBuildInfo{})
	commands := []string{
		"register", "login", "logout", "list", "show", "write", "delete",
		"pull", "sync", "status", "analyze", "recommend", "watch", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(models.AppBuildInfo{})

	for _, name := range []string{"a", "d", "c", "config", "env", "request-timeout", "probe-interval", "sync-interval", "log-level", "log-file", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}

	addr := cmd.PersistentFlags().Lookup("a")
	require.NotNil(t, addr)
	assert.Equal(t, "a", addr.Shorthand)
}

func TestGlobalFlagsFillConfig(t *testing.T) {
	cmd, opts := newRootCommand(models.AppBuildInfo{})

	require.NoError(t, cmd.PersistentFlags().Parse([]string{"-a", "http://diary:9000", "--request-timeout", "3s"}))

	assert.Equal(t, "http://diary:9000", opts.Config.Adapter.HTTPAddress)
	assert.Equal(t, "3s", opts.Config.Adapter.RequestTimeout.String())
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand(models.AppBuildInfo{})
	watchCmd, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)

	autoSync := watchCmd.Flags().Lookup("auto-sync")
	require.NotNil(t, autoSync)
	assert.Equal(t, "false", autoSync.DefValue)

	metricsAddr := watchCmd.Flags().Lookup("metrics-addr")
	require.NotNil(t, metricsAddr)
	assert.Equal(t, "", metricsAddr.DefValue)
}

func TestWriteCommandFlags(t *testing.T) {
	cmd := NewRootCommand(models.AppBuildInfo{})
	writeCmd, _, err := cmd.Find([]string{"write"})
	require.NoError(t, err)

	for name, short := range map[string]string{"path": "p", "title": "t", "body": "b"} {
		f := writeCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, short, f.Shorthand)
	}
	assert.NotNil(t, writeCmd.Flags().Lookup("created-at"))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand(models.NewAppBuildInfo("v1.2.3", "2026-10-01", ""))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Build version: v1.2.3")
	assert.Contains(t, out.String(), "Build date: 2026-10-01")
	assert.Contains(t, out.String(), "Build commit: N/A")
}
