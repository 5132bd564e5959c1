package config

import (
	"fmt"
	"time"
)

// Storage selects where the tracked set and the last update timestamp live.
type Storage struct {
	Backend     string `env:"STORAGE_BACKEND" envDefault:"file"`
	Dir         string `env:"STORAGE_DIR" envDefault:"./data"`
	RedisPrefix string `env:"STORAGE_REDIS_PREFIX" envDefault:"price_tracker:"`
}

type Postgres struct {
	DSN             string        `env:"PG_DSN" json:"-"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"4"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"2"`
}

// validateStorage checks that the chosen backend has what it needs to
// connect.
func (c Config) validateStorage() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.Dir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file backend")
		}
	case "memory":
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PG_DSN is required for the postgres backend")
		}
	case "redis":
		if c.Redis.Address == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND: unknown backend %q", c.Storage.Backend)
	}

	return nil
}
