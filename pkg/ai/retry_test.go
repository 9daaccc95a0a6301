package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flakyProvider fails a fixed number of times before succeeding.
type flakyProvider struct {
	failures int
	calls    int
	err      error
}

func (p *flakyProvider) CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return ChatResponse{}, p.err
	}
	return ChatResponse{Content: "ok", Model: req.Model}, nil
}

func newRecordingClient(p Provider, policy RetryPolicy) (*Client, *[]time.Duration) {
	c := NewClient(p, policy)
	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return c, &delays
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	provider := &flakyProvider{failures: 2, err: errors.New("boom")}
	client, delays := newRecordingClient(provider, DefaultRetryPolicy())

	resp, err := client.CreateChatCompletion(context.Background(), ChatRequest{Model: "m", Messages: []Message{{Role: "user", Content: "hi"}}})
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Expected response content 'ok', got %q", resp.Content)
	}
	if provider.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", provider.calls)
	}

	if len(*delays) != 2 {
		t.Fatalf("Expected 2 backoff sleeps, got %d", len(*delays))
	}
	first, second := (*delays)[0], (*delays)[1]
	if second < first {
		t.Errorf("Backoff not monotonic: %v then %v", first, second)
	}
	max := DefaultRetryPolicy().MaxWait
	if first > max || second > max {
		t.Errorf("Backoff exceeded maximum %v: %v, %v", max, first, second)
	}
	min := DefaultRetryPolicy().MinWait
	if first < min || second < min {
		t.Errorf("Backoff below minimum %v: %v, %v", min, first, second)
	}
}

func TestRetryExhaustionReturnsOriginalError(t *testing.T) {
	sentinel := errors.New("always failing")
	provider := &flakyProvider{failures: 100, err: sentinel}
	client, delays := newRecordingClient(provider, DefaultRetryPolicy())

	_, err := client.CreateChatCompletion(context.Background(), ChatRequest{Model: "m"})
	if err != sentinel {
		t.Errorf("Expected the original error to be surfaced unwrapped, got: %v", err)
	}
	if provider.calls != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", provider.calls)
	}
	if len(*delays) != 2 {
		t.Errorf("Expected 2 sleeps (none after final attempt), got %d", len(*delays))
	}
}

func TestRetryNoSleepOnFirstTrySuccess(t *testing.T) {
	provider := &flakyProvider{failures: 0}
	client, delays := newRecordingClient(provider, DefaultRetryPolicy())

	if _, err := client.CreateChatCompletion(context.Background(), ChatRequest{Model: "m"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("Expected a single attempt, got %d", provider.calls)
	}
	if len(*delays) != 0 {
		t.Errorf("Expected no sleeps, got %v", *delays)
	}
}

func TestRetryRetriesMalformedRequestsToo(t *testing.T) {
	// The retry loop applies uniformly; even a 400-class failure is
	// retried up to the cap.
	provider := &flakyProvider{failures: 100, err: newOpenAIError(t, 400)}
	client, _ := newRecordingClient(provider, DefaultRetryPolicy())

	_, err := client.CreateChatCompletion(context.Background(), ChatRequest{Model: "m"})
	if err == nil {
		t.Fatal("Expected failure")
	}
	if provider.calls != 3 {
		t.Errorf("Expected 3 attempts for a malformed request, got %d", provider.calls)
	}
}

func TestRetryCancelledContext(t *testing.T) {
	provider := &flakyProvider{failures: 100, err: errors.New("boom")}
	client := NewClient(provider, DefaultRetryPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateChatCompletion(ctx, ChatRequest{Model: "m"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled during backoff, got: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("Expected no further attempts after cancellation, got %d", provider.calls)
	}
}

func TestBackoffSchedule(t *testing.T) {
	policy := DefaultRetryPolicy()
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},  // 1s clamped up to the floor
		{2, 2 * time.Second},  // 2s
		{3, 4 * time.Second},  // 4s
		{4, 8 * time.Second},  // 8s
		{5, 10 * time.Second}, // 16s clamped to the ceiling
		{6, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := policy.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffCustomMultiplier(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, MinWait: time.Second, MaxWait: time.Minute, Multiplier: 3}
	if got := policy.Backoff(2); got != 6*time.Second {
		t.Errorf("Backoff(2) with multiplier 3 = %v, want 6s", got)
	}
}
