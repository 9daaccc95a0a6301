package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"chat_cli/pkg/ai"
	"chat_cli/pkg/conversation"
)

type fakeProvider struct {
	reply   string
	err     error
	gotReqs []ai.ChatRequest
}

func (p *fakeProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	p.gotReqs = append(p.gotReqs, req)
	if p.err != nil {
		return ai.ChatResponse{}, p.err
	}
	return ai.ChatResponse{Content: p.reply, Model: req.Model}, nil
}

func noRetry() ai.RetryPolicy {
	return ai.RetryPolicy{MaxAttempts: 1}
}

func newTestAgent(provider ai.Provider) *Agent {
	return New(provider, Options{
		Model:        "test-model",
		SystemPrompt: "S",
		Temperature:  0.7,
		Retry:        noRetry(),
	})
}

func TestSendAppendsUserAndAssistant(t *testing.T) {
	provider := &fakeProvider{reply: "Hello!"}
	a := newTestAgent(provider)

	if _, err := a.Send(context.Background(), "Hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	got := a.History()
	want := []conversation.Message{
		{Role: "system", Content: "S"},
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello!"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d messages, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Message %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestSendForwardsFullHistory(t *testing.T) {
	provider := &fakeProvider{reply: "r"}
	a := newTestAgent(provider)

	a.Send(context.Background(), "first")
	a.Send(context.Background(), "second")

	if len(provider.gotReqs) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(provider.gotReqs))
	}
	last := provider.gotReqs[1]
	// system + user + assistant + user
	if len(last.Messages) != 4 {
		t.Fatalf("Expected full history of 4 messages, got %d", len(last.Messages))
	}
	if last.Messages[0].Role != "system" {
		t.Errorf("Expected system message first, got %q", last.Messages[0].Role)
	}
	if last.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got %q", last.Model)
	}
	if last.Temperature == nil || *last.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", last.Temperature)
	}
}

func TestSendFailureKeepsUserTurn(t *testing.T) {
	sentinel := errors.New("provider down")
	provider := &fakeProvider{err: sentinel}
	a := newTestAgent(provider)

	_, err := a.Send(context.Background(), "Hi")
	if err != sentinel {
		t.Fatalf("Expected the provider error surfaced, got: %v", err)
	}

	got := a.History()
	if len(got) != 2 {
		t.Fatalf("Expected system + user turns after failure, got %d messages", len(got))
	}
	if got[1].Role != "user" || got[1].Content != "Hi" {
		t.Errorf("Expected the user turn retained, got %+v", got[1])
	}
}

func TestDefaultSystemPrompt(t *testing.T) {
	a := New(&fakeProvider{}, Options{Model: "m", Retry: noRetry()})

	got := a.History()
	if len(got) != 1 || got[0].Role != "system" || got[0].Content != DefaultSystemPrompt {
		t.Errorf("Expected default system prompt seeded, got %v", got)
	}
}

func TestClearKeepsSystemPrompt(t *testing.T) {
	provider := &fakeProvider{reply: "r"}
	a := newTestAgent(provider)
	a.Send(context.Background(), "Hi")

	a.Clear(true)
	got := a.History()
	if len(got) != 1 || got[0].Role != "system" || got[0].Content != "S" {
		t.Errorf("Expected only the system prompt after clear, got %v", got)
	}

	a.Clear(false)
	if len(a.History()) != 0 {
		t.Errorf("Expected empty history after clear(false), got %v", a.History())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	provider := &fakeProvider{reply: "Hello!"}
	a := newTestAgent(provider)
	a.Send(context.Background(), "Hi")

	path := filepath.Join(t.TempDir(), "session.json")
	if err := a.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	b := New(&fakeProvider{}, Options{Model: "m", Retry: noRetry()})
	if err := b.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, want := b.History(), a.History()
	if len(got) != len(want) {
		t.Fatalf("Loaded %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Message %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
