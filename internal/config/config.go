// Package config provides configuration for the interview service.
//
// Settings are resolved in three layers: built-in defaults, an optional
// YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Interview InterviewConfig `yaml:"interview"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// OpenAIConfig holds collaborator API settings.
type OpenAIConfig struct {
	APIKey    string        `yaml:"-"` // env only, never from file
	BaseURL   string        `yaml:"base_url"`
	ChatModel string        `yaml:"chat_model"`
	STTModel  string        `yaml:"stt_model"`
	TTSModel  string        `yaml:"tts_model"`
	Voice     string        `yaml:"voice"`
	Timeout   time.Duration `yaml:"timeout"`
}

// InterviewConfig holds interview defaults.
type InterviewConfig struct {
	DefaultDifficulty string `yaml:"default_difficulty"`
	DefaultQuestions  int    `yaml:"default_questions"`
	MaxQuestions      int    `yaml:"max_questions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		OpenAI: OpenAIConfig{
			BaseURL:   "https://api.openai.com/v1",
			ChatModel: "gpt-4o-mini",
			STTModel:  "whisper-1",
			TTSModel:  "tts-1",
			Voice:     "alloy",
			Timeout:   30 * time.Second,
		},
		Interview: InterviewConfig{
			DefaultDifficulty: "simple",
			DefaultQuestions:  2,
			MaxQuestions:      20,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (skipped when path is empty or the file does not exist), and
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv() {
	c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.ChatModel = getEnv("OPENAI_CHAT_MODEL", c.OpenAI.ChatModel)
	c.OpenAI.STTModel = getEnv("OPENAI_STT_MODEL", c.OpenAI.STTModel)
	c.OpenAI.TTSModel = getEnv("OPENAI_TTS_MODEL", c.OpenAI.TTSModel)
	c.OpenAI.Voice = getEnv("OPENAI_TTS_VOICE", c.OpenAI.Voice)
	c.OpenAI.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", c.OpenAI.Timeout)
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	c.Server.LogLevel = getEnv("LOG_LEVEL", c.Server.LogLevel)
}

// Validate checks that the configuration is usable.
// A missing API key is allowed: the service starts degraded instead.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Interview.DefaultQuestions <= 0 {
		return fmt.Errorf("default_questions must be positive, got %d", c.Interview.DefaultQuestions)
	}
	if c.Interview.MaxQuestions < c.Interview.DefaultQuestions {
		return fmt.Errorf("max_questions (%d) must be >= default_questions (%d)",
			c.Interview.MaxQuestions, c.Interview.DefaultQuestions)
	}
	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("openai timeout must be positive, got %s", c.OpenAI.Timeout)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
