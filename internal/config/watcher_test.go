package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, path, addr string) {
	t.Helper()
	content := "server:\n  addr: \"" + addr + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWatcher_LoadsInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfigFile(t, path, ":9999")

	w, err := NewWatcher(path, nil, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	cfg := w.LastConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfigFile(t, path, ":9999")

	var reloaded atomic.Pointer[Config]
	w, err := NewWatcher(path, func(cfg *Config) {
		reloaded.Store(cfg)
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	writeConfigFile(t, path, ":7777")

	require.Eventually(t, func() bool {
		cfg := reloaded.Load()
		return cfg != nil && cfg.Server.Addr == ":7777"
	}, 3*time.Second, 20*time.Millisecond)

	assert.Equal(t, ":7777", w.LastConfig().Server.Addr)
}

func TestWatcher_KeepsConfigOnInvalidEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfigFile(t, path, ":9999")

	var errCount atomic.Int32
	w, err := NewWatcher(path, nil,
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(error) { errCount.Add(1) }),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	// An edit that fails validation must not replace the last config.
	content := "server:\n  addr: \":7777\"\nlogging:\n  level: \"verbose\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.Eventually(t, func() bool {
		return errCount.Load() > 0
	}, 3*time.Second, 20*time.Millisecond)

	assert.Equal(t, ":9999", w.LastConfig().Server.Addr)
}

func TestWatcher_StartMissingFile(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)

	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfigFile(t, path, ":9999")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
}

func TestWatcher_StartTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfigFile(t, path, ":9999")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
}
