package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Errors returned by Validate and ValidateServe.
var (
	ErrMissingToken    = errors.New("http.token is required to serve, set BEARER_TOKEN")
	ErrInvalidLevel    = errors.New("log.level must be one of debug, info, warn, error")
	ErrInvalidPort     = errors.New("http.port is required")
	ErrInvalidRate     = errors.New("openai.rate_per_minute must not be negative")
	ErrInvalidTemp     = errors.New("openai.temperature must be between 0 and 2")
	ErrInvalidSchedule = errors.New("autosave is not a valid cron schedule")
)

// Config is the resolved configuration shared by every command.
type Config struct {
	// File is the itinerary JSON file used when no database is configured.
	File     string
	LogLevel string
	OpenAI   OpenAIConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Weather  WeatherConfig
	HTTP     HTTPConfig
	// Autosave is a cron spec; empty disables it.
	Autosave string
}

// OpenAIConfig configures the language model client. An empty APIKey
// disables the assistant.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	// RatePerMinute caps requests; zero means unlimited.
	RatePerMinute int
}

// RedisConfig enables the response cache when URL is set.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// DatabaseConfig switches persistence to PostgreSQL snapshots when URL is set.
type DatabaseConfig struct {
	URL string
}

// WeatherConfig holds the OpenWeatherMap key. Setting it enables briefing.
type WeatherConfig struct {
	APIKey string
}

// HTTPConfig is used by the serve command only.
type HTTPConfig struct {
	Port  string
	Token string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("file", "iternaries.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.rate_per_minute", 20)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", time.Hour)
	v.SetDefault("database.url", "")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.token", "")
	v.SetDefault("autosave", "")
}

// Well-known variables without the PLANNER_ prefix.
var envAliases = map[string]string{
	"openai.api_key":  "OPENAI_API_KEY",
	"redis.url":       "REDIS_URL",
	"database.url":    "DATABASE_URL",
	"weather.api_key": "OPENWEATHER_API_KEY",
	"http.token":      "BEARER_TOKEN",
}

// Load reads configuration from, lowest precedence first: defaults, the
// optional YAML file at configFile, the environment (after loading .env when
// present), and flags the user set explicitly. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, "PLANNER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("file"); f != nil {
			if err := v.BindPFlag("file", f); err != nil {
				return nil, fmt.Errorf("binding --file: %w", err)
			}
		}
		if f := flags.Lookup("port"); f != nil {
			if err := v.BindPFlag("http.port", f); err != nil {
				return nil, fmt.Errorf("binding --port: %w", err)
			}
		}
	}

	cfg := &Config{
		File:     v.GetString("file"),
		LogLevel: strings.ToLower(v.GetString("log.level")),
		OpenAI: OpenAIConfig{
			APIKey:        v.GetString("openai.api_key"),
			Model:         v.GetString("openai.model"),
			BaseURL:       v.GetString("openai.base_url"),
			Temperature:   v.GetFloat64("openai.temperature"),
			RatePerMinute: v.GetInt("openai.rate_per_minute"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
			TTL: v.GetDuration("redis.ttl"),
		},
		Database: DatabaseConfig{URL: v.GetString("database.url")},
		Weather:  WeatherConfig{APIKey: v.GetString("weather.api_key")},
		HTTP: HTTPConfig{
			Port:  v.GetString("http.port"),
			Token: v.GetString("http.token"),
		},
		Autosave: v.GetString("autosave"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return ErrInvalidTemp
	}
	if c.OpenAI.RatePerMinute < 0 {
		return ErrInvalidRate
	}
	if c.Autosave != "" {
		if _, err := cron.ParseStandard(c.Autosave); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}
	return nil
}

// ValidateServe checks the extra settings the HTTP server needs.
func (c *Config) ValidateServe() error {
	if c.HTTP.Token == "" {
		return ErrMissingToken
	}
	if c.HTTP.Port == "" {
		return ErrInvalidPort
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w, got %q", ErrInvalidLevel, s)
}
