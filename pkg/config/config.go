// Package config loads and validates the application configuration:
// a JSON file under ~/.chat_cli, environment variable overrides, and
// optional .env credential loading.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	LLMProvider string          `json:"llm_provider"`
	Providers   ProvidersConfig `json:"providers"`
	Retry       RetryConfig     `json:"retry"`
	LogLevel    string          `json:"log_level"`
	LogFormat   string          `json:"log_format"`
	LogFile     string          `json:"log_file"`
}

// ProvidersConfig groups the per-provider settings.
type ProvidersConfig struct {
	OpenAI    ProviderSettings `json:"openai"`
	Google    ProviderSettings `json:"google"`
	Anthropic ProviderSettings `json:"anthropic"`
}

// ProviderSettings holds the configuration for one LLM provider.
type ProviderSettings struct {
	APIKey            string  `json:"api_key"`
	APIURL            string  `json:"api_url,omitempty"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// RetryConfig bounds the send retry loop.
type RetryConfig struct {
	MaxAttempts    int     `json:"max_attempts"`
	MinWaitSeconds int     `json:"min_wait_seconds"`
	MaxWaitSeconds int     `json:"max_wait_seconds"`
	Multiplier     float64 `json:"multiplier"`
}

// Default returns a configuration with default values.
func Default() Config {
	return Config{
		LLMProvider: "openai",
		Providers: ProvidersConfig{
			OpenAI: ProviderSettings{
				Model:             "gpt-4o",
				Temperature:       0.7,
				MaxTokens:         2000,
				APITimeoutSeconds: 30,
			},
			Google: ProviderSettings{
				Model:             "gemini-3-flash-preview",
				Temperature:       0.7,
				MaxTokens:         2000,
				APITimeoutSeconds: 60,
			},
			Anthropic: ProviderSettings{
				Model:             "claude-sonnet-4-20250514",
				Temperature:       0.7,
				MaxTokens:         2000,
				APITimeoutSeconds: 60,
			},
		},
		Retry: RetryConfig{
			MaxAttempts:    3,
			MinWaitSeconds: 2,
			MaxWaitSeconds: 10,
			Multiplier:     1,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// LoadDotEnv loads a .env file from the working directory when one
// exists. Missing files are not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load loads configuration from the specified path. If the file does
// not exist one is created with default values. Environment variables
// override file values in both cases.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		cfg = Default()
		if err := Save(configPath, cfg); err != nil {
			return Config{}, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return applyEnvironmentOverrides(cfg), nil
}

// Save saves the configuration to the specified path.
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides applies environment variable overrides.
// CHAT_CLI_* variables win over file values; provider-native key
// variables (OPENAI_API_KEY and friends) fill in missing keys only.
func applyEnvironmentOverrides(cfg Config) Config {
	if provider := os.Getenv("CHAT_CLI_PROVIDER"); provider != "" {
		cfg.LLMProvider = strings.ToLower(strings.TrimSpace(provider))
	}

	if logLevel := os.Getenv("CHAT_CLI_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}

	if model := os.Getenv("CHAT_CLI_MODEL"); model != "" {
		cfg.forActiveProvider(func(p *ProviderSettings) { p.Model = model })
	}

	if tempStr := os.Getenv("CHAT_CLI_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 64); err == nil && temp >= 0 && temp <= 2 {
			cfg.forActiveProvider(func(p *ProviderSettings) { p.Temperature = temp })
		}
	}

	if cfg.Providers.OpenAI.APIKey == "" {
		cfg.Providers.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Providers.Google.APIKey == "" {
		cfg.Providers.Google.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Providers.Anthropic.APIKey == "" {
		cfg.Providers.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return cfg
}

// ApplyOverrides applies command line overrides. The provider switch
// happens first so a model override lands on the right provider.
func (c *Config) ApplyOverrides(provider, model string) {
	if provider != "" {
		c.LLMProvider = strings.ToLower(strings.TrimSpace(provider))
	}
	if model != "" {
		c.forActiveProvider(func(p *ProviderSettings) { p.Model = model })
	}
}

func (c *Config) forActiveProvider(apply func(*ProviderSettings)) {
	switch c.LLMProvider {
	case "openai":
		apply(&c.Providers.OpenAI)
	case "google":
		apply(&c.Providers.Google)
	case "anthropic":
		apply(&c.Providers.Anthropic)
	}
}

// Active returns the settings of the configured provider.
func (c Config) Active() (ProviderSettings, error) {
	switch c.LLMProvider {
	case "openai":
		return c.Providers.OpenAI, nil
	case "google":
		return c.Providers.Google, nil
	case "anthropic":
		return c.Providers.Anthropic, nil
	default:
		return ProviderSettings{}, fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}
}

// Validate checks if the configuration is valid. A missing credential
// for the active provider is an error here so the session fails at
// startup rather than at the first send.
func (c Config) Validate() error {
	active, err := c.Active()
	if err != nil {
		return err
	}

	if strings.TrimSpace(active.APIKey) == "" {
		return fmt.Errorf("%s API key is required (set it in the config file, a .env file, or the provider's environment variable)", c.LLMProvider)
	}

	if active.Temperature < 0 || active.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", active.Temperature)
	}

	if active.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got: %d", active.MaxTokens)
	}

	if active.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", active.APITimeoutSeconds)
	}

	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max_attempts must be positive, got: %d", c.Retry.MaxAttempts)
	}
	if c.Retry.MinWaitSeconds < 0 || c.Retry.MaxWaitSeconds <= 0 {
		return errors.New("retry wait bounds must be positive")
	}
	if c.Retry.MinWaitSeconds > c.Retry.MaxWaitSeconds {
		return fmt.Errorf("retry min_wait_seconds (%d) exceeds max_wait_seconds (%d)", c.Retry.MinWaitSeconds, c.Retry.MaxWaitSeconds)
	}

	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".chat_cli", "config.json")
	}
	return filepath.Join(homeDir, ".chat_cli", "config.json")
}

// ConfigDir returns the directory holding config, logs and REPL
// input history.
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chat_cli"
	}
	return filepath.Join(homeDir, ".chat_cli")
}
