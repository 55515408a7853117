package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Identity IdentityConfig `mapstructure:"identity"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Runs     RunsConfig     `mapstructure:"runs"`
	Cron     CronConfig     `mapstructure:"cron"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	// Per-jurisdiction auction metadata applied when a scraper omits it.
	AuctionDefaults []AuctionDefault `mapstructure:"auction_defaults"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	IngestToken string `mapstructure:"ingest_token"`
}

type IdentityConfig struct {
	DefaultCounty string `mapstructure:"default_county"`
	DefaultState  string `mapstructure:"default_state"`
}

type IngestConfig struct {
	ExistenceChunkSize   int `mapstructure:"existence_chunk_size"`
	ExistenceParallelism int `mapstructure:"existence_parallelism"`
	ReconcileChunkSize   int `mapstructure:"reconcile_chunk_size"`
	MaxBatchSize         int `mapstructure:"max_batch_size"`
}

type ScraperConfig struct {
	DefaultName string `mapstructure:"default_name"`
}

type RunsConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

type CronConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	DailyReset    string `mapstructure:"daily_reset"`
	StaleRunSweep string `mapstructure:"stale_run_sweep"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AuctionDefault struct {
	County    string `mapstructure:"county"`
	State     string `mapstructure:"state"`
	Location  string `mapstructure:"location"`
	StartTime string `mapstructure:"start_time"`
	Platform  string `mapstructure:"platform"`
	SourceURL string `mapstructure:"source_url"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.ingest_token", "")
	v.SetDefault("identity.default_county", "Orange")
	v.SetDefault("identity.default_state", "FL")
	v.SetDefault("ingest.existence_chunk_size", 200)
	v.SetDefault("ingest.existence_parallelism", 4)
	v.SetDefault("ingest.reconcile_chunk_size", 500)
	v.SetDefault("ingest.max_batch_size", 500)
	v.SetDefault("scraper.default_name", "orange_taxdeed")
	v.SetDefault("runs.stale_after", "6h")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.daily_reset", "0 0 5 * * *")
	v.SetDefault("cron.stale_run_sweep", "@every 15m")
	v.SetDefault("metrics.enabled", true)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the engine cannot run with. A missing ingest
// token is allowed: the auth middleware then refuses every request.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Identity.DefaultCounty) == "" {
		return errors.New("identity.default_county is required")
	}
	if strings.TrimSpace(c.Identity.DefaultState) == "" {
		return errors.New("identity.default_state is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case "postgres", "sqlite":
	default:
		return errors.New("db.driver must be postgres or sqlite")
	}
	for _, d := range c.AuctionDefaults {
		if strings.TrimSpace(d.County) == "" || strings.TrimSpace(d.State) == "" {
			return errors.New("auction_defaults entries need county and state")
		}
	}
	return nil
}
