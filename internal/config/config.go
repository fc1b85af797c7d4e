// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type AppConfig struct {
	// Backend
	APIBaseURL string `mapstructure:"api_base_url"`

	// Console
	HTTPAddr string `mapstructure:"http_addr"`
	AppEnv   string `mapstructure:"app_env"`

	// Durable storage
	StorageDriver string `mapstructure:"storage_driver"`
	StoragePath   string `mapstructure:"storage_path"`

	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPass   string `mapstructure:"redis_pass"`
	RedisDB     int    `mapstructure:"redis_db"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// IsDevelopment reports whether APP_ENV selects development logging.
func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// RedisAddresses splits the comma separated redis_addr.
func (c AppConfig) RedisAddresses() []string {
	var out []string
	for _, a := range strings.Split(c.RedisAddr, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Load layers defaults, an optional taskdesk.yaml and the environment.
// A missing config file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	return load(viper.New(), "")
}

// LoadFile is Load with an explicit config file.
func LoadFile(path string) (AppConfig, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, file string) (AppConfig, error) {
	v.SetDefault("api_base_url", "http://localhost:5027/api")
	v.SetDefault("http_addr", "127.0.0.1:5173")
	v.SetDefault("app_env", "production")
	v.SetDefault("storage_driver", StorageFile)
	v.SetDefault("storage_path", defaultStoragePath())
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_pass", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "taskdesk:")

	for _, key := range []string{
		"api_base_url", "http_addr", "app_env",
		"storage_driver", "storage_path",
		"redis_addr", "redis_pass", "redis_db", "redis_prefix",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("taskdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return AppConfig{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// --- Helper functions ---

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskdesk")
}

func defaultStoragePath() string {
	if dir := configDir(); dir != "" {
		return filepath.Join(dir, "storage.json")
	}
	return "taskdesk-storage.json"
}
