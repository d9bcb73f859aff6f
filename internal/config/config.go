package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Forecast    ForecastConfig `mapstructure:"forecast"`
	Planning    PlanningConfig `mapstructure:"planning"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RedisConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

type ForecastConfig struct {
	DefaultModel   string `mapstructure:"default_model"`
	DefaultHorizon int    `mapstructure:"default_horizon"`
	MaxHorizon     int    `mapstructure:"max_horizon"`
}

type PlanningConfig struct {
	LeadTimeMonths int     `mapstructure:"lead_time_months"`
	SafetyStockPct float64 `mapstructure:"safety_stock_pct"`
	MinOrderQty    float64 `mapstructure:"min_order_qty"`
	UnitCost       string  `mapstructure:"unit_cost"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file not found is fine, defaults plus env cover it
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Forecast.DefaultHorizon < 1 {
		return nil, fmt.Errorf("forecast default horizon must be positive, got %d", config.Forecast.DefaultHorizon)
	}
	if config.Forecast.MaxHorizon < config.Forecast.DefaultHorizon {
		return nil, fmt.Errorf("forecast max horizon %d is below the default horizon %d",
			config.Forecast.MaxHorizon, config.Forecast.DefaultHorizon)
	}
	if config.Planning.LeadTimeMonths < 0 {
		return nil, fmt.Errorf("planning lead time cannot be negative, got %d", config.Planning.LeadTimeMonths)
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_ttl_minutes", 60)

	// Forecast
	viper.SetDefault("forecast.default_model", "smoothing")
	viper.SetDefault("forecast.default_horizon", 12)
	viper.SetDefault("forecast.max_horizon", 36)

	// Planning
	viper.SetDefault("planning.lead_time_months", 2)
	viper.SetDefault("planning.safety_stock_pct", 10.0)
	viper.SetDefault("planning.min_order_qty", 0.0)
	viper.SetDefault("planning.unit_cost", "1.00")
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
