// Package config loads product-support settings from defaults, an optional
// config file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PRODUCT_SUPPORT_DATA_ROW_LIMIT.
const EnvPrefix = "PRODUCT_SUPPORT"

// Config is the full application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Support   SupportConfig   `mapstructure:"support"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// DataConfig locates the product dataset.
type DataConfig struct {
	CSVPath  string `mapstructure:"csv_path" validate:"required"`
	RowLimit int    `mapstructure:"row_limit" validate:"min=1"`
	Watch    bool   `mapstructure:"watch"`
}

// CatalogConfig configures the catalog agent and how others reach it.
type CatalogConfig struct {
	Addr    string        `mapstructure:"addr" validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// SupportConfig configures the customer-support agent.
type SupportConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// StoreConfig locates the session database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig is a per-server token bucket. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"min=1"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `mapstructure:"pretty"`
}

// legacyEnv maps config keys to the older variable names still honored.
var legacyEnv = map[string]string{
	"data.csv_path":    "DATA_CSV_PATH",
	"catalog.base_url": "PRODUCT_CATALOG_BASE_URL",
	"store.path":       "PRODUCT_SUPPORT_DB",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.csv_path", filepath.Join("data", "DatafinitiElectronicsProductsPricingData.csv"))
	v.SetDefault("data.row_limit", 2000)
	v.SetDefault("data.watch", false)
	v.SetDefault("catalog.addr", ":8001")
	v.SetDefault("catalog.base_url", "http://localhost:8001")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("support.addr", ":8000")
	v.SetDefault("store.path", "")
	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply. The file format follows its extension.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		canonical := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, canonical, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", legacy, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Store.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		cfg.Store.Path = filepath.Join(home, ".product-support", "sessions.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
