package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	viper.Reset()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}
	t.Chdir(dir)
}

func TestLoadAppliesDefaults(t *testing.T) {
	writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want the configured 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("server.host = %q, want default", cfg.Server.Host)
	}
	if cfg.Catalog.RootPath != "/var/commerce/products/cloud" {
		t.Errorf("catalog.root_path = %q, want default", cfg.Catalog.RootPath)
	}
	if cfg.Catalog.RootCategoryID != 2 {
		t.Errorf("catalog.root_category_id = %d, want default", cfg.Catalog.RootCategoryID)
	}
	if !cfg.Catalog.CachingEnabled || !cfg.Catalog.SchedulerEnabled {
		t.Error("caching and scheduler must default to enabled")
	}
	if cfg.Catalog.CacheRefreshMinutes != 60 {
		t.Errorf("catalog.cache_refresh_minutes = %d, want default", cfg.Catalog.CacheRefreshMinutes)
	}
	if cfg.Magento.MaxRequestsPerSecond != 10 {
		t.Errorf("magento.max_requests_per_second = %d, want default", cfg.Magento.MaxRequestsPerSecond)
	}
}

func TestLoadOverrides(t *testing.T) {
	writeConfig(t, `
magento:
  endpoint: https://shop.example.com/graphql
catalog:
  caching_enabled: false
  root_category_id: 7
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Magento.Endpoint != "https://shop.example.com/graphql" {
		t.Errorf("magento.endpoint = %q", cfg.Magento.Endpoint)
	}
	if cfg.Catalog.CachingEnabled {
		t.Error("catalog.caching_enabled = true, want the configured false")
	}
	if cfg.Catalog.RootCategoryID != 7 {
		t.Errorf("catalog.root_category_id = %d", cfg.Catalog.RootCategoryID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when config.yaml is missing")
	}
}
