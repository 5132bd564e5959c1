package config

import (
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Bot      Bot
	Tracker  Tracker
	Shop     Shop
	Storage  Storage
	Postgres Postgres
	Redis    Redis
	Log      Log
	Servers  Servers
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"price-tracker"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Bot struct {
	Token  string `env:"BOT_TOKEN,required,notEmpty" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID,required"`

	// AllowedChats limits who may send commands. Empty means anyone.
	AllowedChats []int64 `env:"BOT_ALLOWED_CHAT_IDS" envSeparator:","`
}

type Tracker struct {
	PollInterval   time.Duration `env:"TRACKER_POLL_INTERVAL" envDefault:"1m"`
	StaleThreshold time.Duration `env:"TRACKER_STALE_THRESHOLD" envDefault:"6h"`
	Timezone       string        `env:"TIMEZONE" envDefault:"UTC"`
}

type Shop struct {
	URLPrefix      string        `env:"SHOP_URL_PREFIX" envDefault:"https://www.cdkeys.com/"`
	HTTPTimeout    time.Duration `env:"SHOP_HTTP_TIMEOUT" envDefault:"30s"`
	NameCacheTTL   time.Duration `env:"SHOP_NAME_CACHE_TTL" envDefault:"10m"`
	UserAgent      string        `env:"SHOP_USER_AGENT"`
	LogFieldMaxLen int           `env:"SHOP_LOG_FIELD_MAX_LEN" envDefault:"2048"`
}

type Log struct {
	Level      slog.Level `env:"LOG_LEVEL" envDefault:"DEBUG"`
	File       string     `env:"LOG_FILE"`
	MaxSizeMB  int        `env:"LOG_MAX_SIZE_MB" envDefault:"250"`
	MaxBackups int        `env:"LOG_MAX_BACKUPS" envDefault:"1"`
}

type Servers struct {
	HTTPListenAddress    string        `env:"HTTP_LISTEN_ADDRESS"`
	HTTPShutdownTimeout  time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	HTTPLogFieldMaxLen   int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"2048"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS"`
}

// Load reads an optional .env and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}

	if _, err := time.LoadLocation(c.Tracker.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}

	return nil
}

// Location is the zone timestamps are taken in.
func (t Tracker) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}
