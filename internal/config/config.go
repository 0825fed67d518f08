// Package config loads clinicdesk settings from defaults, an optional
// YAML file and CLINICDESK_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CLINICDESK_API_TOKEN.
const EnvPrefix = "CLINICDESK"

type Config struct {
	APIBaseURL      string        `mapstructure:"api_base_url"`
	APIToken        string        `mapstructure:"api_token"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	CatalogCacheTTL time.Duration `mapstructure:"catalog_cache_ttl"`
	SandboxAddr     string        `mapstructure:"sandbox_addr"`
	SandboxSecret   string        `mapstructure:"sandbox_secret"`
	SandboxPatients int           `mapstructure:"sandbox_patients"`
}

var keys = []string{
	"api_base_url",
	"api_token",
	"request_timeout",
	"log_level",
	"log_file",
	"redis_addr",
	"catalog_cache_ttl",
	"sandbox_addr",
	"sandbox_secret",
	"sandbox_patients",
}

// Load reads the configuration. path names an optional YAML file; a
// missing file at the default location is not an error, a missing file
// given explicitly is.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "http://localhost:8085")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("catalog_cache_ttl", 10*time.Minute)
	v.SetDefault("sandbox_addr", "localhost:8085")
	v.SetDefault("sandbox_patients", 25)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("clinicdesk")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "clinicdesk"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("config: api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api_base_url %q is not an absolute URL", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: request_timeout must be positive")
	}
	if c.RedisAddr != "" && c.CatalogCacheTTL <= 0 {
		return errors.New("config: catalog_cache_ttl must be positive when redis_addr is set")
	}
	return nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "clinicdesk", "clinicdesk.log")
}
