package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "giraffesql", cfg.AppName)
	assert.Equal(t, "data", cfg.Storage.Workdir)
	assert.Equal(t, ":5432", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giraffe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: testdb
storage:
  workdir: /tmp/envdir
server:
  addr: ":9999"
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testdb", cfg.AppName)
	assert.Equal(t, "/tmp/envdir", cfg.Storage.Workdir)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
