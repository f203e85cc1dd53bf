package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Lesson    LessonConfig    `mapstructure:"lesson"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DatasetConfig holds dataset ingestion configuration
type DatasetConfig struct {
	DefaultFile    string `mapstructure:"default_file"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// LessonConfig holds lesson defaults
type LessonConfig struct {
	DefaultCount int `mapstructure:"default_count"`
}

// MatchingConfig holds answer matching options
type MatchingConfig struct {
	AcceptVariantScript bool `mapstructure:"accept_variant_script"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

// AudioConfig holds speech configuration
type AudioConfig struct {
	Provider     string `mapstructure:"provider"` // none or gcp
	CacheDir     string `mapstructure:"cache_dir"`
	LanguageCode string `mapstructure:"language_code"`
	VoiceName    string `mapstructure:"voice_name"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"` // empty keeps the mode default
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "trainer.db")
	v.SetDefault("dataset.default_file", "data.csv")
	v.SetDefault("dataset.max_upload_bytes", 5<<20)
	v.SetDefault("lesson.default_count", 10)
	v.SetDefault("matching.accept_variant_script", false)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.idle_timeout", "10m")
	v.SetDefault("audio.provider", "none")
	v.SetDefault("audio.cache_dir", "audio")
	v.SetDefault("audio.language_code", "cmn-CN")
	v.SetDefault("audio.voice_name", "cmn-CN-Wavenet-A")
	v.SetDefault("log.level", "")
}

func bindEnvVars(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		v.Set("server.mode", mode)
	}

	// Storage
	if path := os.Getenv("TRAINER_DB_PATH"); path != "" {
		v.Set("database.path", path)
	}
	if file := os.Getenv("TRAINER_DATA_FILE"); file != "" {
		v.Set("dataset.default_file", file)
	}

	// Matching
	if variant := os.Getenv("TRAINER_ACCEPT_VARIANT_SCRIPT"); variant != "" {
		v.Set("matching.accept_variant_script", variant == "true")
	}

	// Rate Limit
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rate_limit.enabled", enabled == "true")
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}

	// Audio
	if provider := os.Getenv("AUDIO_PROVIDER"); provider != "" {
		v.Set("audio.provider", provider)
	}
	if dir := os.Getenv("AUDIO_CACHE_DIR"); dir != "" {
		v.Set("audio.cache_dir", dir)
	}

	// Logging
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		v.Set("log.level", level)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Dataset.MaxUploadBytes <= 0 {
		return fmt.Errorf("dataset max_upload_bytes must be positive")
	}

	if c.Lesson.DefaultCount < 5 || c.Lesson.DefaultCount > 50 {
		return fmt.Errorf("invalid lesson default_count: %d (must be between 5 and 50)", c.Lesson.DefaultCount)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Audio.Provider != "none" && c.Audio.Provider != "gcp" {
		return fmt.Errorf("invalid audio provider: %s (must be 'none' or 'gcp')", c.Audio.Provider)
	}

	if c.Audio.Provider == "gcp" && c.Audio.CacheDir == "" {
		return fmt.Errorf("audio cache_dir cannot be empty when provider is 'gcp'")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Log.Level)
	}

	return nil
}
