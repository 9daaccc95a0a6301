package ai

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds the retry loop around provider calls. The delay
// before attempt n+1 is Multiplier * 2^(n-1) seconds, clamped to
// [MinWait, MaxWait].
type RetryPolicy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy returns the policy used by the chat session:
// 3 attempts, waits clamped to [2s, 10s].
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		MinWait:     2 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  1,
	}
}

// Backoff returns the delay to wait after the given 1-based attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := time.Duration(p.Multiplier * float64(int64(1)<<uint(attempt-1)) * float64(time.Second))
	if delay > p.MaxWait {
		delay = p.MaxWait
	}
	if delay < p.MinWait {
		delay = p.MinWait
	}
	return delay
}

// Client wraps a Provider with the bounded retry policy. One request
// is in flight at a time; backoff blocks the caller.
type Client struct {
	provider Provider
	policy   RetryPolicy

	// sleep is swappable so tests can observe delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient wraps provider with the given retry policy.
func NewClient(provider Provider, policy RetryPolicy) *Client {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Client{
		provider: provider,
		policy:   policy,
		sleep:    sleepCtx,
	}
}

// CreateChatCompletion sends the request, retrying on failure up to
// the attempt cap with exponential backoff. Every failure is
// classified and logged with its suggestion; retries do not
// discriminate by error kind. On exhaustion the last provider error
// is returned as-is.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		resp, err := c.provider.CreateChatCompletion(ctx, req)
		if err == nil {
			if attempt > 1 {
				slog.Info("chat_completion_recovered", "attempt", attempt, "model", req.Model)
			}
			return resp, nil
		}

		lastErr = err
		info := Classify(err)
		slog.Error("chat_completion_failed",
			"attempt", attempt,
			"max_attempts", c.policy.MaxAttempts,
			"error_type", info.ErrorType,
			"error", info.Message,
			"suggestion", info.Suggestion,
		)

		if attempt == c.policy.MaxAttempts {
			break
		}

		delay := c.policy.Backoff(attempt)
		slog.Warn("chat_completion_retrying", "attempt", attempt, "delay", delay)
		if err := c.sleep(ctx, delay); err != nil {
			return ChatResponse{}, err
		}
	}

	return ChatResponse{}, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
