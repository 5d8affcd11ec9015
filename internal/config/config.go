package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Magento MagentoConfig `mapstructure:"magento"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// ServerConfig holds the HTTP resource API configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// MagentoConfig holds the GraphQL endpoint configuration
type MagentoConfig struct {
	Endpoint             string `mapstructure:"endpoint"`
	StoreView            string `mapstructure:"store_view"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`

	// Authentication
	AuthToken string `mapstructure:"auth_token"`
}

// CatalogConfig holds the virtual catalog tree configuration
type CatalogConfig struct {
	RootPath            string `mapstructure:"root_path"`
	RootCategoryID      int    `mapstructure:"root_category_id"`
	CategoryDepth       int    `mapstructure:"category_depth"`
	CachingEnabled      bool   `mapstructure:"caching_enabled"`
	SchedulerEnabled    bool   `mapstructure:"scheduler_enabled"`
	CacheRefreshMinutes int    `mapstructure:"cache_refresh_minutes"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("magento.endpoint", "http://localhost/graphql")
	viper.SetDefault("magento.store_view", "default")
	viper.SetDefault("magento.timeout", 30)
	viper.SetDefault("magento.max_retries", 3)
	viper.SetDefault("magento.max_requests_per_second", 10)
	viper.SetDefault("magento.auth_token", "")

	viper.SetDefault("catalog.root_path", "/var/commerce/products/cloud")
	viper.SetDefault("catalog.root_category_id", 2)
	viper.SetDefault("catalog.category_depth", 5)
	viper.SetDefault("catalog.caching_enabled", true)
	viper.SetDefault("catalog.scheduler_enabled", true)
	viper.SetDefault("catalog.cache_refresh_minutes", 60)
}
