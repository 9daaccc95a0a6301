// Package agent ties a conversation history to a retry-wrapped LLM
// client and drives the send/reply cycle for one chat session.
package agent

import (
	"context"
	"log/slog"

	"chat_cli/pkg/ai"
	"chat_cli/pkg/conversation"
)

// DefaultSystemPrompt seeds sessions that configure no system prompt.
const DefaultSystemPrompt = "You are a helpful AI assistant."

// Options configures a new Agent.
type Options struct {
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Retry        ai.RetryPolicy
}

// Agent owns one conversation and the client used to advance it.
// Not safe for concurrent use: one send is in flight at a time.
type Agent struct {
	client      *ai.Client
	history     *conversation.History
	model       string
	temperature float64
	maxTokens   int
}

// New creates an agent around the given provider. The history is
// seeded with the configured system prompt, or a default one.
func New(provider ai.Provider, opts Options) *Agent {
	prompt := opts.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	history := conversation.New()
	history.SetSystemPrompt(prompt)

	return &Agent{
		client:      ai.NewClient(provider, opts.Retry),
		history:     history,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Send appends message as a user turn, forwards the full history to
// the provider and appends the reply as an assistant turn. On failure
// the user turn stays in the history and no assistant turn is added;
// the provider error is returned for the caller to classify.
func (a *Agent) Send(ctx context.Context, message string) (string, error) {
	if err := a.history.Add(conversation.RoleUser, message); err != nil {
		return "", err
	}

	slog.Info("sending_message", "model", a.model, "history_messages", a.history.Len())

	req := ai.ChatRequest{
		Model:       a.model,
		Messages:    toAIMessages(a.history.Snapshot()),
		Temperature: &a.temperature,
	}
	if a.maxTokens > 0 {
		req.MaxTokens = &a.maxTokens
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if err := a.history.Add(conversation.RoleAssistant, resp.Content); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SetSystemPrompt replaces the session's system prompt.
func (a *Agent) SetSystemPrompt(prompt string) {
	a.history.SetSystemPrompt(prompt)
}

// Clear resets the conversation, optionally keeping the system prompt.
func (a *Agent) Clear(keepSystemPrompt bool) {
	a.history.Clear(keepSystemPrompt)
}

// History returns the transcript in session order.
func (a *Agent) History() []conversation.Message {
	return a.history.Messages()
}

// Save writes the conversation to a JSON file.
func (a *Agent) Save(path string) error {
	return a.history.SaveFile(path)
}

// Load replaces the conversation with the contents of a JSON file.
func (a *Agent) Load(path string) error {
	return a.history.LoadFile(path)
}

// Model returns the model identifier the agent sends with.
func (a *Agent) Model() string {
	return a.model
}

func toAIMessages(messages []conversation.Message) []ai.Message {
	out := make([]ai.Message, len(messages))
	for i, m := range messages {
		out[i] = ai.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
