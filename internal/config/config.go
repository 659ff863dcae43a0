// Package config loads layered process configuration: a base file, an
// environment-specific overlay, and finally the process environment, via
// viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration surface across all three
// binaries; each binary reads only the section it needs.
type Config struct {
	Indexer  IndexerConfig  `mapstructure:"indexer"`
	Searcher SearcherConfig `mapstructure:"searcher"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	LogLevel string         `mapstructure:"log_level"`
}

type IndexerConfig struct {
	Addr             string        `mapstructure:"addr"`
	DBPath           string        `mapstructure:"db_path"`
	Workers          int           `mapstructure:"workers"`
	SearchBackendURL string        `mapstructure:"search_backend_url"`
	AllowedSchemes   []string      `mapstructure:"allowed_schemes"`
	SupportedLangs   []string      `mapstructure:"supported_languages"`
	PerHostQPS       float64       `mapstructure:"per_host_qps"`
	PerHostBurst     int           `mapstructure:"per_host_burst"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

type SearcherConfig struct {
	Addr         string        `mapstructure:"addr"`
	PostgresDSN  string        `mapstructure:"postgres_dsn"`
	RankInterval time.Duration `mapstructure:"rank_interval"`
}

type GatewayConfig struct {
	Addr             string `mapstructure:"addr"`
	SearchBackendURL string `mapstructure:"search_backend_url"`
}

// Load reads config/base.yaml, overlays config/<env>.yaml (env as passed by
// the caller, default "dev"), then overlays the process environment (WEBINDEX_ prefix,
// nested keys joined with "_"). Missing overlay files are not an error —
// base.yaml alone is a valid configuration.
func Load(env string) (Config, error) {
	if env == "" {
		env = "dev"
	}

	v := viper.New()
	v.SetConfigName("base")
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading base config: %w", err)
		}
	}

	overlay := viper.New()
	overlay.SetConfigName(env)
	overlay.SetConfigType("yaml")
	overlay.AddConfigPath("config")
	if err := overlay.ReadInConfig(); err == nil {
		if err := v.MergeConfigMap(overlay.AllSettings()); err != nil {
			return Config{}, fmt.Errorf("merging %s overlay: %w", env, err)
		}
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return Config{}, fmt.Errorf("reading %s overlay: %w", env, err)
	}

	v.SetEnvPrefix("webindex")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("indexer.addr", "0.0.0.0:8082")
	v.SetDefault("indexer.db_path", "temp.db")
	v.SetDefault("indexer.workers", 8)
	v.SetDefault("indexer.search_backend_url", "http://localhost:8083")
	v.SetDefault("indexer.allowed_schemes", []string{"http", "https"})
	v.SetDefault("indexer.supported_languages", []string{"english"})
	v.SetDefault("indexer.per_host_qps", 0.0)
	v.SetDefault("indexer.per_host_burst", 1)
	v.SetDefault("indexer.request_timeout", 60*time.Second)

	v.SetDefault("searcher.addr", "0.0.0.0:8083")
	v.SetDefault("searcher.postgres_dsn", "user=postgres dbname=webindex host=/tmp")
	v.SetDefault("searcher.rank_interval", 30*time.Second)

	v.SetDefault("gateway.addr", "0.0.0.0:8081")
	v.SetDefault("gateway.search_backend_url", "http://localhost:8083")
}
