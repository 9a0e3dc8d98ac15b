package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/pkg/apperrors"
)

const testConfig = `
env: local
output_dir: /tmp/relgraph-out
visualize: true
databases:
  shop:
    type: postgres
    host: db.internal
    port: 5432
    user: analyst
    password: from-yaml
    database: shop
    ssl_mode: require
  legacy:
    type: mssql
    host: legacy.internal
    port: 1433
    user: sa
    database: legacy
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "/tmp/relgraph-out", cfg.OutputDir)
	assert.True(t, cfg.Visualize)
	assert.Len(t, cfg.Databases, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDatabaseLookup(t *testing.T) {
	cfg, err := Load(writeTestConfig(t))
	require.NoError(t, err)

	db, err := cfg.Database("shop")
	require.NoError(t, err)
	assert.Equal(t, "postgres", db.Type)
	assert.Equal(t, "from-yaml", db.Password)

	conn := db.Connection()
	assert.Equal(t, "db.internal", conn.Host)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, "require", conn.SSLMode)

	_, err = cfg.Database("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownDatabase)
}

func TestPasswordOverride(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load(writeTestConfig(t))
	require.NoError(t, err)

	db, err := cfg.Database("shop")
	require.NoError(t, err)
	assert.Equal(t, "from-env", db.Password, "DB_PASSWORD overrides the yaml password")
}

func TestDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("databases: {}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.False(t, cfg.Visualize)
}
