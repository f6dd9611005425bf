package client

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LT_SERVER_URL", "LT_ROOM", "LT_NAME", "LT_LOG_FILE", "LT_LOG_LEVEL", "LT_ADMIN_ADDR", "LT_INPUT_MS"} {
		if prev, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, DefaultInputInterval, cfg.InputInterval)
}

func TestLoadConfigEnvThenFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("LT_SERVER_URL", "wss://temple.example/ws")
	t.Setenv("LT_ROOM", "ABCD")
	t.Setenv("LT_NAME", "Ann")
	t.Setenv("LT_INPUT_MS", "25")

	cfg, err := LoadConfig([]string{"-name", "Bob", "-admin", "127.0.0.1:6060"}, "")
	require.NoError(t, err)
	assert.Equal(t, "wss://temple.example/ws", cfg.ServerURL)
	assert.Equal(t, "ABCD", cfg.Room)
	assert.Equal(t, "Bob", cfg.Name, "flags win over the environment")
	assert.Equal(t, "127.0.0.1:6060", cfg.AdminAddr)
	assert.Equal(t, 25*time.Millisecond, cfg.InputInterval)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LT_ROOM", "REAL")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LT_ROOM=FILE\nLT_NAME=Cleo\n"), 0o600))

	cfg, err := LoadConfig(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "REAL", cfg.Room, "real environment wins over .env")
	assert.Equal(t, "Cleo", cfg.Name)

	_, err = LoadConfig(nil, filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig([]string{"-url", "http://example.test"}, "")
	assert.ErrorContains(t, err, "scheme")

	_, err = LoadConfig([]string{"-url", "ws://"}, "")
	assert.ErrorContains(t, err, "missing host")

	_, err = LoadConfig([]string{"-input", "0s"}, "")
	assert.ErrorContains(t, err, "input interval")

	_, err = LoadConfig([]string{"-bogus"}, "")
	assert.Error(t, err)

	t.Setenv("LT_INPUT_MS", "fast")
	_, err = LoadConfig(nil, "")
	assert.ErrorContains(t, err, "LT_INPUT_MS")
}

func TestLoadConfigHelp(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig([]string{"-h"}, "")
	assert.ErrorIs(t, err, flag.ErrHelp)
}
