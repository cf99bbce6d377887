package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultServerURL, cfg.ServerURL)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
		assert.False(t, cfg.Cache)
	})

	t.Run("reads values from the config file", func(t *testing.T) {
		dir := t.TempDir()
		content := "server_url: https://pos.example.com/api/v1\ntimeout: 10s\ncache: true\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "https://pos.example.com/api/v1", cfg.ServerURL)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.True(t, cfg.Cache)
	})

	t.Run("unset fields are filled with defaults", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("cache: true\n"), 0600))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, DefaultServerURL, cfg.ServerURL)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
		assert.True(t, cfg.Cache)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(":\tnot yaml"), 0600))

		_, err := Load(dir)
		require.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	t.Run("round-trips through the file", func(t *testing.T) {
		dir := t.TempDir()
		want := Config{
			ServerURL: "https://pos.example.com/api/v1",
			Timeout:   5 * time.Second,
			Cache:     true,
			Debug:     true,
		}

		require.NoError(t, Save(dir, want))

		got, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("config file has 0600 permissions", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, Save(dir, Default()))

		info, err := os.Stat(filepath.Join(dir, "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}

func TestBaseDir(t *testing.T) {
	t.Run("creates the directory with 0700 permissions", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "state")
		got, err := BaseDir(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, got)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})
}
