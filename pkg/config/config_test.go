package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LLMProvider != "openai" {
		t.Errorf("Expected default provider 'openai', got %q", cfg.LLMProvider)
	}
	if cfg.Providers.OpenAI.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %f", cfg.Providers.OpenAI.Temperature)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Expected default retry max_attempts 3, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.MinWaitSeconds != 2 || cfg.Retry.MaxWaitSeconds != 10 {
		t.Errorf("Expected default retry waits 2/10, got %d/%d", cfg.Retry.MinWaitSeconds, cfg.Retry.MaxWaitSeconds)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	cfg.LLMProvider = "anthropic"
	cfg.Providers.Anthropic.APIKey = "test-api-key"
	cfg.Providers.Anthropic.Model = "claude-sonnet-4-20250514"
	if err := Save(configPath, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load modified config: %v", err)
	}
	if loaded.LLMProvider != "anthropic" {
		t.Errorf("Expected provider 'anthropic', got %q", loaded.LLMProvider)
	}
	if loaded.Providers.Anthropic.APIKey != "test-api-key" {
		t.Errorf("Expected saved API key, got %q", loaded.Providers.Anthropic.APIKey)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CHAT_CLI_PROVIDER", "google")
	t.Setenv("CHAT_CLI_MODEL", "gemini-override")
	t.Setenv("CHAT_CLI_TEMPERATURE", "1.5")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LLMProvider != "google" {
		t.Errorf("Expected provider override 'google', got %q", cfg.LLMProvider)
	}
	if cfg.Providers.Google.Model != "gemini-override" {
		t.Errorf("Expected model override, got %q", cfg.Providers.Google.Model)
	}
	if cfg.Providers.Google.Temperature != 1.5 {
		t.Errorf("Expected temperature override 1.5, got %f", cfg.Providers.Google.Temperature)
	}
	if cfg.Providers.Google.APIKey != "env-key" {
		t.Errorf("Expected API key from environment, got %q", cfg.Providers.Google.APIKey)
	}
}

func TestEnvKeyDoesNotOverrideConfiguredKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	configPath := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Providers.OpenAI.APIKey = "file-key"
	if err := Save(configPath, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Providers.OpenAI.APIKey != "file-key" {
		t.Errorf("Expected file key to win, got %q", loaded.Providers.OpenAI.APIKey)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Providers.OpenAI.APIKey = "test-api-key"
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid config failed validation: %v", err)
	}

	t.Run("missing api key", func(t *testing.T) {
		cfg := Default()
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Expected validation failure for missing API key")
		}
		if !strings.Contains(err.Error(), "API key") {
			t.Errorf("Expected a descriptive credential error, got: %v", err)
		}
	})

	t.Run("unsupported provider", func(t *testing.T) {
		cfg := Default()
		cfg.LLMProvider = "carrier-pigeon"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation failure for unsupported provider")
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.OpenAI.APIKey = "k"
		cfg.Providers.OpenAI.Temperature = 2.5
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation failure for temperature 2.5")
		}
	})

	t.Run("bad retry bounds", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.OpenAI.APIKey = "k"
		cfg.Retry.MinWaitSeconds = 20
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation failure for min wait > max wait")
		}
	})
}

func TestActive(t *testing.T) {
	cfg := Default()
	cfg.LLMProvider = "anthropic"
	cfg.Providers.Anthropic.Model = "claude-x"

	active, err := cfg.Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active.Model != "claude-x" {
		t.Errorf("Expected anthropic settings, got model %q", active.Model)
	}
}
