// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/chainsafe/ethgas/pkg/networks"
)

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Pricefeed PricefeedConfig `yaml:"pricefeed"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Auth      AuthConfig      `yaml:"auth"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host" default:"0.0.0.0"`
	Port         int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"15s"`
}

// Address returns the host:port the server listens on.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig contains postgres connection settings. Only required
// when the postgres history backend is selected.
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"ethgas"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// HistoryBackend selects where gas samples are persisted.
const (
	HistoryBackendFile     = "file"
	HistoryBackendPostgres = "postgres"
)

// HistoryConfig selects and configures the sample store.
type HistoryConfig struct {
	Backend string `yaml:"backend" default:"file" validate:"oneof=file postgres"`
	// Path is the JSON-lines file location for the file backend;
	// empty means ~/.ethgas/history.jsonl.
	Path string `yaml:"path"`
}

// TrackerConfig contains the polling engine settings.
type TrackerConfig struct {
	Networks     []string          `yaml:"networks" validate:"min=1"`
	Interval     time.Duration     `yaml:"interval" default:"15s" validate:"min=1s"`
	PriorityTip  float64           `yaml:"priority_tip" default:"1.5" validate:"gte=0"`
	RPCOverrides map[string]string `yaml:"rpc_overrides"`
	History      HistoryConfig     `yaml:"history"`
}

// PricefeedConfig contains CoinGecko client settings.
type PricefeedConfig struct {
	BaseURL  string        `yaml:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl" default:"60s" validate:"min=1s"`
}

// AlertRuleConfig seeds one alert rule at startup.
type AlertRuleConfig struct {
	Network   string  `yaml:"network" validate:"required"`
	Threshold float64 `yaml:"threshold" validate:"gt=0"`
}

// AlertsConfig contains alerting settings.
type AlertsConfig struct {
	Webhooks []string          `yaml:"webhooks" validate:"dive,url"`
	Rules    []AlertRuleConfig `yaml:"rules" validate:"dive"`
}

// AuthConfig contains admin endpoint protection settings.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
	Issuer  string `yaml:"issuer" default:"ethgas"`
}

// Load reads, defaults and validates the configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if len(cfg.Tracker.Networks) == 0 {
		cfg.Tracker.Networks = []string{"ethereum"}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate enforces the cross-field rules the struct tags cannot express.
func (c *Config) validate() error {
	for _, id := range c.Tracker.Networks {
		if _, err := networks.Get(id); err != nil {
			return fmt.Errorf("tracker.networks: %w", err)
		}
	}
	for id, rpcURL := range c.Tracker.RPCOverrides {
		n, err := networks.Get(id)
		if err != nil {
			return fmt.Errorf("tracker.rpc_overrides: %w", err)
		}
		if _, err := n.WithRPCURL(rpcURL); err != nil {
			return fmt.Errorf("tracker.rpc_overrides: %w", err)
		}
	}
	for _, rule := range c.Alerts.Rules {
		if _, err := networks.Get(rule.Network); err != nil {
			return fmt.Errorf("alerts.rules: %w", err)
		}
	}
	if c.Tracker.History.Backend == HistoryBackendPostgres && c.Database.User == "" {
		return fmt.Errorf("database.user is required for the postgres history backend")
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required when auth is enabled")
	}
	return nil
}
