package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env      string `mapstructure:"SD_ENV"`
	LogLevel string `mapstructure:"SD_LOG_LEVEL"`
	HTTPAddr string `mapstructure:"SD_HTTP_ADDR"`

	Data     DataConfig     `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Query    QueryConfig    `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
}

type DataConfig struct {
	EmployeesFile string `mapstructure:"SD_DATA_FILE"`
	PresetsFile   string `mapstructure:"SD_PRESETS_FILE"`
	WatchDataFile bool   `mapstructure:"SD_WATCH_DATA_FILE"`
}

type CacheConfig struct {
	RedisAddr string        `mapstructure:"SD_REDIS_ADDR"`
	ResultTTL time.Duration `mapstructure:"SD_RESULT_CACHE_TTL"`
}

type QueryConfig struct {
	DefaultPageSize int `mapstructure:"SD_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `mapstructure:"SD_MAX_PAGE_SIZE"`
}

type SecurityConfig struct {
	RateLimitRPM       int      `mapstructure:"SD_RATE_LIMIT_RPM"`
	CORSAllowedOrigins []string `mapstructure:"SD_CORS_ALLOWED_ORIGINS"`
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	seen := make(map[string]struct{})
	for _, path := range candidates {
		abs := path
		if resolved, err := filepath.Abs(path); err == nil {
			abs = resolved
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}

		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // env vars already set take precedence
		}
	}
}

func Load() (*Config, error) {
	loadDotEnvFiles()

	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SD_ENV", "dev")
	viper.SetDefault("SD_LOG_LEVEL", "") // empty picks the env default
	viper.SetDefault("SD_HTTP_ADDR", ":8080")
	viper.SetDefault("SD_DATA_FILE", "./data/employees.json")
	viper.SetDefault("SD_PRESETS_FILE", "./data/presets.json")
	viper.SetDefault("SD_WATCH_DATA_FILE", true)
	viper.SetDefault("SD_REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("SD_RESULT_CACHE_TTL", "5s")
	viper.SetDefault("SD_DEFAULT_PAGE_SIZE", 50)
	viper.SetDefault("SD_MAX_PAGE_SIZE", 200)
	viper.SetDefault("SD_RATE_LIMIT_RPM", 120)
	viper.SetDefault("SD_CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	// Handle array parsing for comma-separated values
	if origins := viper.GetString("SD_CORS_ALLOWED_ORIGINS"); origins != "" {
		viper.Set("SD_CORS_ALLOWED_ORIGINS", strings.Split(origins, ","))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Data.EmployeesFile == "" {
		return fmt.Errorf("SD_DATA_FILE is required")
	}
	if c.Data.PresetsFile == "" {
		return fmt.Errorf("SD_PRESETS_FILE is required")
	}
	if c.Query.DefaultPageSize <= 0 {
		return fmt.Errorf("SD_DEFAULT_PAGE_SIZE must be positive, got %d", c.Query.DefaultPageSize)
	}
	if c.Query.MaxPageSize <= 0 {
		return fmt.Errorf("SD_MAX_PAGE_SIZE must be positive, got %d", c.Query.MaxPageSize)
	}
	if c.Query.DefaultPageSize > c.Query.MaxPageSize {
		return fmt.Errorf("SD_DEFAULT_PAGE_SIZE %d exceeds SD_MAX_PAGE_SIZE %d", c.Query.DefaultPageSize, c.Query.MaxPageSize)
	}
	if c.Cache.ResultTTL < 0 {
		return fmt.Errorf("SD_RESULT_CACHE_TTL must not be negative")
	}
	if c.Security.RateLimitRPM <= 0 {
		return fmt.Errorf("SD_RATE_LIMIT_RPM must be positive, got %d", c.Security.RateLimitRPM)
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
