package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 5678\n")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 5678, cfg.Server.Port)
		assert.Equal(t, "data/billed.db", cfg.Database.Path)
		assert.Equal(t, "data/receipts", cfg.Storage.ReceiptsDir)
		assert.Equal(t, "bill-events", cfg.AMQP.Queue)
		assert.Equal(t, "info", cfg.Logger.Level)
	})

	t.Run("reads explicit values", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9000
database:
  path: /tmp/test.db
storage:
  receipts_dir: /tmp/receipts
logger:
  level: debug
  format: console
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
		assert.Equal(t, "debug", cfg.Logger.Level)
	})

	t.Run("rejects an out of range port", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: -1\n")

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
