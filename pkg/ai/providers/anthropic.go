package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chat_cli/pkg/ai"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	anthropicDefaultModel     = "claude-sonnet-4-20250514"
	anthropicDefaultTimeout   = 60
	anthropicDefaultMaxTokens = 4096
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderAnthropic,
		Name:        "Anthropic",
		Description: "Direct Anthropic Claude API access",
		RequiresKey: true,
	}, NewAnthropicProvider)
}

// AnthropicProvider implements the Provider interface using the Anthropic SDK.
type AnthropicProvider struct {
	client             anthropic.Client
	defaultModel       string
	defaultTemperature float64
	defaultMaxTokens   int
}

// NewAnthropicProvider creates a new Anthropic provider from config.
func NewAnthropicProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	return newAnthropicProviderWithHTTPClient(cfg, nil)
}

func newAnthropicProviderWithHTTPClient(cfg ai.ProviderConfig, httpClient *http.Client) (ai.Provider, error) {
	providerCfg := cfg.Config.Providers.Anthropic

	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic: %w (set ANTHROPIC_API_KEY or providers.anthropic.api_key)", ai.ErrMissingAPIKey)
	}

	model := providerCfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}

	timeout := providerCfg.APITimeoutSeconds
	if timeout <= 0 {
		timeout = anthropicDefaultTimeout
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}

	// Retry behavior is owned by the ai.Client wrapper, not the SDK.
	opts := []option.RequestOption{
		option.WithAPIKey(providerCfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(providerCfg.APIURL) != "" {
		opts = append(opts, option.WithBaseURL(providerCfg.APIURL))
	}

	return &AnthropicProvider{
		client:             anthropic.NewClient(opts...),
		defaultModel:       model,
		defaultTemperature: providerCfg.Temperature,
		defaultMaxTokens:   providerCfg.MaxTokens,
	}, nil
}

// CreateChatCompletion sends a chat completion request.
func (p *AnthropicProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	params, err := p.buildMessageParams(req)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return ai.ChatResponse{
		Content: sb.String(),
		Model:   string(resp.Model),
	}, nil
}

func (p *AnthropicProvider) buildMessageParams(req ai.ChatRequest) (anthropic.MessageNewParams, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.defaultModel
	}
	if strings.TrimSpace(model) == "" {
		return anthropic.MessageNewParams{}, fmt.Errorf("model is required")
	}
	if len(req.Messages) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("messages are required")
	}

	// Anthropic takes the system prompt out of band; only user and
	// assistant turns go in the messages array.
	var systemParts []string
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		switch role {
		case "system":
			if content := strings.TrimSpace(msg.Content); content != "" {
				systemParts = append(systemParts, content)
			}
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case "user":
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("unsupported role: %s", msg.Role)
		}
	}
	if len(messages) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("at least one user or assistant message is required")
	}

	maxTokens := p.defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if len(systemParts) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(systemParts, "\n\n")}}
	}

	temperature := p.defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params.Temperature = anthropic.Float(temperature)

	return params, nil
}

// Ensure interface compliance
var _ ai.Provider = (*AnthropicProvider)(nil)
