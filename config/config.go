package config

import (
	"fmt"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	MetaSync  MetaSync       `mapstructure:"metasync"`
	Watch     Watch          `mapstructure:"watch"`
	Signal    SignalConfig   `mapstructure:"signal"`
	Sectors   []SectorConfig `mapstructure:"sectors" validate:"required,min=1,dive"`
	Benchmark Benchmark      `mapstructure:"benchmark"`
	Cache     Cache          `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type MetaSync struct {
	BaseURL             string        `mapstructure:"base_url" validate:"required,url"`
	RapidAPIKey         string        `mapstructure:"rapidapi_key" validate:"required"`
	RapidAPIHost        string        `mapstructure:"rapidapi_host" validate:"required"`
	Login               int64         `mapstructure:"login"`
	Password            string        `mapstructure:"password"`
	Server              string        `mapstructure:"server"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"required"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute" validate:"required,gt=0"`
}

type Watch struct {
	// Interval drives a plain ticker loop. Schedule, when set, is a cron
	// expression and takes precedence (e.g. "*/5 9-16 * * 1-5" to poll only
	// during market hours).
	Interval       time.Duration `mapstructure:"interval"`
	Schedule       string        `mapstructure:"schedule"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout" validate:"required"`
	MaxConcurrency int           `mapstructure:"max_concurrency" validate:"required,gt=0"`
}

type SignalConfig struct {
	// Relative-strength boundaries in percent points versus the benchmark.
	StrongThreshold float64 `mapstructure:"strong_threshold"`
	WeakThreshold   float64 `mapstructure:"weak_threshold"`
}

type SectorConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Symbol   string `mapstructure:"symbol" validate:"required"`
	Category string `mapstructure:"category" validate:"required,oneof=growth defensive"`
}

type Benchmark struct {
	Name   string `mapstructure:"name" validate:"required"`
	Symbol string `mapstructure:"symbol" validate:"required"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	// Local development keeps the RapidAPI key and MT5 credentials in .env.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("metasync.timeout", 15*time.Second)
	viper.SetDefault("metasync.max_request_per_minute", 60)
	viper.SetDefault("watch.interval", 5*time.Minute)
	viper.SetDefault("watch.fetch_timeout", 30*time.Second)
	viper.SetDefault("watch.max_concurrency", 3)
	viper.SetDefault("signal.strong_threshold", 1.0)
	viper.SetDefault("signal.weak_threshold", -1.0)
	viper.SetDefault("cache.default_expiration", 1*time.Hour)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
}

// Validate surfaces configuration problems before any polling starts.
func (c *Config) Validate() error {
	validate := goValidator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Sectors))
	for _, sector := range c.Sectors {
		if _, dup := seen[sector.Symbol]; dup {
			return fmt.Errorf("invalid configuration: duplicate sector symbol %q", sector.Symbol)
		}
		seen[sector.Symbol] = struct{}{}
	}
	if _, dup := seen[c.Benchmark.Symbol]; dup {
		return fmt.Errorf("invalid configuration: benchmark symbol %q is also a sector", c.Benchmark.Symbol)
	}

	if c.Signal.StrongThreshold <= c.Signal.WeakThreshold {
		return fmt.Errorf("invalid configuration: strong threshold %.2f must be above weak threshold %.2f",
			c.Signal.StrongThreshold, c.Signal.WeakThreshold)
	}

	if c.Watch.Schedule == "" && c.Watch.Interval <= 0 {
		return fmt.Errorf("invalid configuration: watch interval must be positive")
	}

	if c.Watch.Schedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Watch.Schedule); err != nil {
			return fmt.Errorf("invalid configuration: bad watch schedule %q: %w", c.Watch.Schedule, err)
		}
	}

	return nil
}
