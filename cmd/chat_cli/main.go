package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"chat_cli/pkg/agent"
	"chat_cli/pkg/ai"
	_ "chat_cli/pkg/ai/providers"
	"chat_cli/pkg/config"
	"chat_cli/pkg/display"
	"chat_cli/pkg/logging"
	"chat_cli/pkg/version"
)

func main() {
	var (
		configPath   = flag.String("config", config.GetConfigPath(), "path to the configuration file")
		providerFlag = flag.String("provider", "", "LLM provider (openai, google, anthropic)")
		modelFlag    = flag.String("model", "", "model identifier, overrides the configured model")
		systemFlag   = flag.String("system", "", "system prompt for the session")
		checkFlag    = flag.Bool("check", false, "probe the provider with a one-shot request and exit")
		versionFlag  = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		return
	}

	if err := run(*configPath, *providerFlag, *modelFlag, *systemFlag, *checkFlag); err != nil {
		fmt.Fprintf(os.Stderr, "chat_cli: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, providerFlag, modelFlag, systemPrompt string, check bool) error {
	config.LoadDotEnv()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyOverrides(providerFlag, modelFlag)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := logging.Init(cfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	slog.Info("session_starting",
		"version", version.Summary(),
		"provider", cfg.LLMProvider,
		"config_path", configPath,
	)

	provider, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		return err
	}

	active, err := cfg.Active()
	if err != nil {
		return err
	}

	if check {
		return runCheck(provider, cfg.LLMProvider, active)
	}

	a := agent.New(provider, agent.Options{
		Model:        active.Model,
		SystemPrompt: systemPrompt,
		Temperature:  active.Temperature,
		MaxTokens:    active.MaxTokens,
		Retry:        retryPolicy(cfg.Retry),
	})

	return runSession(a, cfg.LLMProvider, active.Model)
}

// runCheck sends a single short completion to verify connectivity and
// credentials. No retries: the point is to surface the failure.
func runCheck(provider ai.Provider, providerName string, settings config.ProviderSettings) error {
	fmt.Printf("Checking %s (%s)...\n", providerName, settings.Model)

	maxTokens := 16
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(settings.APITimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := provider.CreateChatCompletion(ctx, ai.ChatRequest{
		Model: settings.Model,
		Messages: []ai.Message{
			{Role: "user", Content: "Reply with the single word: pong"},
		},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		info := ai.Classify(err)
		fmt.Println(display.RenderError(info))
		return fmt.Errorf("connection check failed")
	}

	fmt.Printf("OK: %q\n", resp.Content)
	return nil
}

func retryPolicy(rc config.RetryConfig) ai.RetryPolicy {
	return ai.RetryPolicy{
		MaxAttempts: rc.MaxAttempts,
		MinWait:     time.Duration(rc.MinWaitSeconds) * time.Second,
		MaxWait:     time.Duration(rc.MaxWaitSeconds) * time.Second,
		Multiplier:  rc.Multiplier,
	}
}
