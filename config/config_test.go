package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultDBPath, cfg.DBPath)
	require.Equal(t, DefaultBufferCapacity, cfg.BufferCapacity)
	require.Equal(t, DefaultServerAddr, cfg.ServerAddr)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matidb.yaml")
	contents := "db_path: custom.db\nbuffer_capacity: 50\nserver_addr: 0.0.0.0:9999\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "custom.db", cfg.DBPath)
	require.Equal(t, 50, cfg.BufferCapacity)
	require.Equal(t, "0.0.0.0:9999", cfg.ServerAddr)
}

func TestLoadFromJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matidb.json")
	contents := `{"db_path": "other.db", "buffer_capacity": 200}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "other.db", cfg.DBPath)
	require.Equal(t, 200, cfg.BufferCapacity)
	require.Equal(t, DefaultServerAddr, cfg.ServerAddr)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, NewDefault(), cfg)
}
