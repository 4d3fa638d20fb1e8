package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o-mini" {
		t.Errorf("unexpected chat model: %s", cfg.OpenAI.ChatModel)
	}
	if cfg.Interview.DefaultQuestions != 2 {
		t.Errorf("expected 2 default questions, got %d", cfg.Interview.DefaultQuestions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.yaml")
	data := []byte(`
server:
  port: 9090
openai:
  chat_model: gpt-4o
  timeout: 10s
interview:
  default_questions: 3
  max_questions: 10
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o" {
		t.Errorf("expected gpt-4o, got %s", cfg.OpenAI.ChatModel)
	}
	if cfg.OpenAI.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.OpenAI.Timeout)
	}
	if cfg.Interview.DefaultQuestions != 3 {
		t.Errorf("expected 3 default questions, got %d", cfg.Interview.DefaultQuestions)
	}
	// Untouched settings keep defaults
	if cfg.OpenAI.Voice != "alloy" {
		t.Errorf("expected default voice, got %s", cfg.OpenAI.Voice)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070, got %d", cfg.Server.Port)
	}
	if cfg.OpenAI.APIKey != "test-key" {
		t.Errorf("expected API key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.OpenAI.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero default questions", func(c *Config) { c.Interview.DefaultQuestions = 0 }},
		{"max below default", func(c *Config) { c.Interview.MaxQuestions = 1 }},
		{"zero timeout", func(c *Config) { c.OpenAI.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
