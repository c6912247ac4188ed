package config

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, DriverMySQL, cfg.Driver)
	assert.Equal(t, 10, cfg.PoolLimit)
	assert.Equal(t, "client/dist", cfg.StaticDir)

	mc, err := mysql.ParseDSN(cfg.DSN)
	require.NoError(t, err)
	assert.Equal(t, "root", mc.User)
	assert.Equal(t, "password", mc.Passwd)
	assert.Equal(t, "localhost:3306", mc.Addr)
	assert.Equal(t, "todolist", mc.DBName)
	assert.True(t, mc.ParseTime)
}

func TestLoadFieldForm(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "todo")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "tasks")
	t.Setenv("DB_SSL", "true")
	t.Setenv("DB_POOL_LIMIT", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, 25, cfg.PoolLimit)

	mc, err := mysql.ParseDSN(cfg.DSN)
	require.NoError(t, err)
	assert.Equal(t, "todo", mc.User)
	assert.Equal(t, "s3cret", mc.Passwd)
	assert.Equal(t, "db.internal:3307", mc.Addr)
	assert.Equal(t, "tasks", mc.DBName)
	assert.Equal(t, "skip-verify", mc.TLSConfig)
}

func TestLoadConnectionStringWins(t *testing.T) {
	t.Setenv("DB_HOST", "ignored.example")
	t.Setenv("DATABASE_URL", "app:pw@tcp(db.example:3306)/todolist")

	cfg, err := Load()
	require.NoError(t, err)

	mc, err := mysql.ParseDSN(cfg.DSN)
	require.NoError(t, err)
	assert.Equal(t, "app", mc.User)
	assert.Equal(t, "db.example:3306", mc.Addr)
	assert.True(t, mc.ParseTime)
}

func TestLoadBadConnectionString(t *testing.T) {
	t.Setenv("DATABASE_URL", "://not-a-dsn")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "tmp/test.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.True(t, strings.HasPrefix(cfg.DSN, "file:tmp/test.db"))
}

func TestLoadUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}
