package config

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config holds everything the server reads from the environment at startup.
type Config struct {
	Addr      string
	StaticDir string
	Driver    string
	DSN       string
	PoolLimit int
}

// Load reads the recognized environment variables and assembles the
// runtime configuration. DATABASE_URL, when set, overrides the
// field-form database variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 3000)
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "todolist")
	v.SetDefault("DB_SSL", false)
	v.SetDefault("DB_POOL_LIMIT", 10)
	v.SetDefault("DB_PATH", "data/todolist.db")
	v.SetDefault("STATIC_DIR", "client/dist")

	cfg := &Config{
		Addr:      fmt.Sprintf(":%d", v.GetInt("PORT")),
		StaticDir: v.GetString("STATIC_DIR"),
		Driver:    strings.ToLower(v.GetString("DB_DRIVER")),
		PoolLimit: v.GetInt("DB_POOL_LIMIT"),
	}

	switch cfg.Driver {
	case DriverMySQL:
		dsn, err := mysqlDSN(v)
		if err != nil {
			return nil, err
		}
		cfg.DSN = dsn
	case DriverSQLite:
		cfg.DSN = fmt.Sprintf("file:%s?_busy_timeout=5000", v.GetString("DB_PATH"))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}

// mysqlDSN builds the driver DSN from the field-form variables, or
// parses DATABASE_URL when present. parseTime is forced on either way
// so createdAt scans into time.Time.
func mysqlDSN(v *viper.Viper) (string, error) {
	if raw := v.GetString("DATABASE_URL"); raw != "" {
		mc, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	}

	mc := mysql.NewConfig()
	mc.User = v.GetString("DB_USER")
	mc.Passwd = v.GetString("DB_PASSWORD")
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", v.GetString("DB_HOST"), v.GetInt("DB_PORT"))
	mc.DBName = v.GetString("DB_NAME")
	mc.ParseTime = true
	if v.GetBool("DB_SSL") {
		mc.TLSConfig = "skip-verify"
	}
	return mc.FormatDSN(), nil
}
