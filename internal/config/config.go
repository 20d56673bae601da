// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all application configuration.
type Config struct {
	Port        string `env:"PORT" envDefault:"8000"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	KnowledgeBasePath string `env:"KNOWLEDGE_BASE_PATH"`

	Inference       InferenceConfig
	ConversationLog ConversationLogConfig
}

// InferenceConfig configures the hosted text-generation endpoint.
// An empty APIToken selects local-only mode.
type InferenceConfig struct {
	APIToken     string        `env:"HF_API_TOKEN"`
	URL          string        `env:"HF_API_URL" envDefault:"https://api-inference.huggingface.co/models/HuggingFaceH4/zephyr-7b-beta"`
	Timeout      time.Duration `env:"HF_TIMEOUT" envDefault:"30s"`
	MaxNewTokens int           `env:"HF_MAX_NEW_TOKENS" envDefault:"150"`
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled       bool   `env:"CONVERSATION_LOG_ENABLED" envDefault:"false"`
	Dir           string `env:"CONVERSATION_LOG_DIR" envDefault:"./data/logs/conversations"`
	GlobalEnabled bool   `env:"CONVERSATION_LOG_GLOBAL_ENABLED" envDefault:"false"`
	GlobalPath    string `env:"CONVERSATION_LOG_GLOBAL_PATH" envDefault:"./data/logs/conversations/all.ndjson"`
	QueueSize     int    `env:"CONVERSATION_LOG_QUEUE_SIZE" envDefault:"1000"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.ConversationLog.QueueSize <= 0 {
		cfg.ConversationLog.QueueSize = 1000
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Inference.URL == "" {
		return fmt.Errorf("HF_API_URL cannot be empty")
	}
	if u, err := url.Parse(c.Inference.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("HF_API_URL must be an absolute URL")
	}
	if c.Inference.Timeout <= 0 {
		return fmt.Errorf("HF_TIMEOUT must be > 0")
	}
	if c.Inference.MaxNewTokens <= 0 {
		return fmt.Errorf("HF_MAX_NEW_TOKENS must be > 0")
	}
	if c.ConversationLog.Enabled && c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.GlobalEnabled && c.ConversationLog.GlobalPath == "" {
		return fmt.Errorf("CONVERSATION_LOG_GLOBAL_PATH cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return fmt.Errorf("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// RemoteEnabled reports whether an inference credential is configured.
func (c *Config) RemoteEnabled() bool {
	return c.Inference.APIToken != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the origins accepted by the CORS policy.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{c.FrontendURL}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
