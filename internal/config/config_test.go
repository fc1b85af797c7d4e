package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:5027/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HTTPAddr != "127.0.0.1:5173" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StorageFile {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if !strings.HasSuffix(cfg.StoragePath, filepath.Join(".config", "taskdesk", "storage.json")) {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if cfg.RedisPrefix != "taskdesk:" || cfg.RedisDB != 0 {
		t.Errorf("redis defaults = %q %d", cfg.RedisPrefix, cfg.RedisDB)
	}
	if cfg.IsDevelopment() {
		t.Error("production is the default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("API_BASE_URL", "https://tasks.example.com/api")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_ADDR", "a:6379, b:6379")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIBaseURL != "https://tasks.example.com/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.StorageDriver != StorageRedis {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d", cfg.RedisDB)
	}
	if addrs := cfg.RedisAddresses(); len(addrs) != 2 || addrs[1] != "b:6379" {
		t.Errorf("RedisAddresses = %v", addrs)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "taskdesk.yaml")
	body := "api_base_url: http://backend:5027/api\nstorage_driver: memory\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.APIBaseURL != "http://backend:5027/api" || cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
