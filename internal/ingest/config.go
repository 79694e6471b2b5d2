package ingest

import (
	"errors"
	"fmt"
	"os"
	"time"
	"topactors-backend/internal/aggregate"
	"topactors-backend/internal/enrich"
	"topactors-backend/internal/scrapers/imdb"
	"topactors-backend/lib/configutil"
	"topactors-backend/lib/sqliteutil"
)

type ImdbConfig struct {
	ListUrl                 string  `json:"list_url"`
	BaseUrl                 string  `json:"base_url"`
	UserAgent               string  `json:"user_agent"`
	ListTimeoutSeconds      int     `json:"list_timeout_seconds"`
	DetailTimeoutSeconds    int     `json:"detail_timeout_seconds"`
	DetailPermits           int64   `json:"detail_permits"`
	DetailRequestsPerSecond float64 `json:"detail_requests_per_second"`
	// BioFailurePolicy is "cache" or "retry".
	BioFailurePolicy string `json:"bio_failure_policy"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	Disabled         bool   `json:"disabled"`
}

type StubConfig struct {
	Disabled bool `json:"disabled"`
}

type AggregateConfig struct {
	// ProviderTimeoutSeconds < 0 disables the per provider timeout.
	ProviderTimeoutSeconds int `json:"provider_timeout_seconds"`
}

type ServerConfig struct {
	Port int `json:"port"`
}

type Config struct {
	Database  sqliteutil.Config `json:"database"`
	Imdb      ImdbConfig        `json:"imdb"`
	Stub      StubConfig        `json:"stub"`
	Aggregate AggregateConfig   `json:"aggregate"`
	Server    ServerConfig      `json:"server"`
}

func DefaultConfig() Config {
	return Config{
		Database: sqliteutil.Config{
			Driver: sqliteutil.DRIVER_SQLITE,
			File:   "data/actors.db",
		},
		Imdb: ImdbConfig{
			ListUrl:              imdb.DefaultListUrl,
			BaseUrl:              imdb.DefaultBaseUrl,
			UserAgent:            imdb.DefaultUserAgent,
			ListTimeoutSeconds:   30,
			DetailTimeoutSeconds: int(enrich.DefaultTimeout / time.Second),
			DetailPermits:        enrich.DefaultPermits,
			BioFailurePolicy:     "cache",
		},
		Aggregate: AggregateConfig{
			ProviderTimeoutSeconds: int(aggregate.DefaultProviderTimeout / time.Second),
		},
		Server: ServerConfig{
			Port: 8000,
		},
	}
}

// LoadConfig reads `path` (and its .local override) on top of the defaults, a missing
// file just means the defaults are used.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err = configutil.WithDefaults(cfg, DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	_, err := enrich.ParseFailurePolicy(c.Imdb.BioFailurePolicy)
	if err != nil {
		return fmt.Errorf("imdb.bio_failure_policy: %w", err)
	}
	if c.Imdb.DetailRequestsPerSecond < 0 {
		return fmt.Errorf("imdb.detail_requests_per_second must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}
