package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/spf13/viper"
)

// Storage backends for saved filters.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "~/.local/share/payfilter/payfilter.db"

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("filters.backend", BackendSQLite)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "payfilter:")
	v.SetDefault("display.timezone", "Local")
	v.SetDefault("plaid.environment", "sandbox")
}

// DatabasePath returns the expanded SQLite path.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	if path == ":memory:" {
		return path
	}
	return ExpandPath(path)
}

// DisplayLocation resolves display.timezone; "Local" and "" mean the
// system zone.
func DisplayLocation(v *viper.Viper) (*time.Location, error) {
	name := v.GetString("display.timezone")
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display.timezone %q: %w", name, common.ErrInvalidConfig)
	}
	return loc, nil
}

// FilterBackend returns the saved-filter backend, validated.
func FilterBackend(v *viper.Viper) (string, error) {
	backend := v.GetString("filters.backend")
	switch backend {
	case "":
		return BackendSQLite, nil
	case BackendSQLite, BackendRedis, BackendMemory:
		return backend, nil
	default:
		return "", fmt.Errorf("filters.backend %q, must be sqlite, redis or memory: %w", backend, common.ErrInvalidConfig)
	}
}

// RedisSettings holds the connection settings for the Redis filter store.
type RedisSettings struct {
	Addr     string
	Password string
	Prefix   string
	DB       int
}

// LoadRedisSettings reads redis.* settings.
func LoadRedisSettings(v *viper.Viper) RedisSettings {
	return RedisSettings{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		Prefix:   v.GetString("redis.prefix"),
	}
}
