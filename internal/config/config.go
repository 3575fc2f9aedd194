// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	Origins      []string      `yaml:"origins"`
	MediaDir     string        `yaml:"media_dir"`
	MediaBaseURL string        `yaml:"media_base_url"` // public prefix for stored files, e.g. http://localhost:5000/media
	RateLimit    int           `yaml:"rate_limit"`     // requests per client per window on provider routes
	RateWindow   time.Duration `yaml:"rate_window"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // job snapshot lifetime
}

type ProvidersConfig struct {
	GroqKey     string  `yaml:"groq_key"`
	GroqModel   string  `yaml:"groq_model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	AssemblyAIKey string `yaml:"assemblyai_key"`
	HFKey         string `yaml:"hf_key"`
	WeatherKey    string `yaml:"weather_key"`
	NewsKey       string `yaml:"news_key"`

	// Timeout for single-shot proxy calls (weather, news, vision, ...).
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

type TranscriptionConfig struct {
	PollInterval     time.Duration `yaml:"poll_interval"`
	MaxWait          time.Duration `yaml:"max_wait"`
	SubmitTimeout    time.Duration `yaml:"submit_timeout"`
	TransientRetries int           `yaml:"transient_retries"` // consecutive transient poll failures tolerated
}

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Providers     ProvidersConfig     `yaml:"providers"`
	Transcription TranscriptionConfig `yaml:"transcription"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation. Provider keys are deliberately not required:
	// a missing key only disables the routes that depend on it.
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 5000
	}
	if len(c.Server.Origins) == 0 {
		c.Server.Origins = []string{"http://localhost:3000"}
	}
	if c.Server.MediaDir == "" {
		c.Server.MediaDir = "uploads"
	}
	if c.Server.MediaBaseURL == "" {
		c.Server.MediaBaseURL = fmt.Sprintf("http://localhost:%d/media", c.Server.Port)
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = 30
	}
	if c.Server.RateWindow <= 0 {
		c.Server.RateWindow = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = time.Hour
	}
	if c.Providers.GroqModel == "" {
		c.Providers.GroqModel = "llama-3.3-70b-versatile"
	}
	if c.Providers.Temperature == 0 {
		c.Providers.Temperature = 0.7
	}
	if c.Providers.MaxTokens <= 0 {
		c.Providers.MaxTokens = 1000
	}
	if c.Providers.HTTPTimeout <= 0 {
		c.Providers.HTTPTimeout = 15 * time.Second
	}
	if c.Transcription.PollInterval <= 0 {
		c.Transcription.PollInterval = 2 * time.Second
	}
	if c.Transcription.MaxWait <= 0 {
		c.Transcription.MaxWait = 3 * time.Minute
	}
	if c.Transcription.SubmitTimeout <= 0 {
		c.Transcription.SubmitTimeout = 30 * time.Second
	}
	if c.Transcription.TransientRetries <= 0 {
		c.Transcription.TransientRetries = 3
	}
}

// MissingProviderKeys lists configured-but-empty provider credentials so
// startup can warn instead of failing; the unaffected routes keep working.
func (c *Config) MissingProviderKeys() []string {
	var missing []string
	if c.Providers.GroqKey == "" {
		missing = append(missing, "providers.groq_key")
	}
	if c.Providers.AssemblyAIKey == "" {
		missing = append(missing, "providers.assemblyai_key")
	}
	if c.Providers.HFKey == "" {
		missing = append(missing, "providers.hf_key")
	}
	if c.Providers.WeatherKey == "" {
		missing = append(missing, "providers.weather_key")
	}
	if c.Providers.NewsKey == "" {
		missing = append(missing, "providers.news_key")
	}
	return missing
}
