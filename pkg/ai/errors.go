package ai

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by provider constructors when no
// credential is configured. Construction must fail fast; a session
// never reaches its first send without a key.
var ErrMissingAPIKey = errors.New("api key is required")

// Failure kinds produced by Classify. The names are stable: they are
// logged, displayed and asserted on.
const (
	KindRateLimited          = "RateLimited"
	KindConnectionFailure    = "ConnectionFailure"
	KindMalformedRequest     = "MalformedRequest"
	KindGenericProviderError = "GenericProviderError"
	KindUnclassified         = "Unclassified"
)

// ErrorInfo is the classified form of a provider failure. It is
// produced for logging and display and never persisted.
type ErrorInfo struct {
	ErrorType  string
	Message    string
	Timestamp  string
	Suggestion string
}

// Classify maps a provider failure to a stable kind with a
// user-facing suggestion. It never fails and always returns a fully
// populated ErrorInfo.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		ErrorType: KindUnclassified,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}
	if err != nil {
		info.Message = err.Error()
	}

	if status, ok := providerStatus(err); ok {
		switch {
		case status == 429:
			info.ErrorType = KindRateLimited
		case status == 400 || status == 422:
			info.ErrorType = KindMalformedRequest
		default:
			info.ErrorType = KindGenericProviderError
		}
	} else if isConnectionFailure(err) {
		info.ErrorType = KindConnectionFailure
	}

	info.Suggestion = suggestionFor(info.ErrorType)
	return info
}

// providerStatus extracts the HTTP status from the SDK error types of
// the supported providers.
func providerStatus(err error) (int, bool) {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode, true
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode, true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	return 0, false
}

func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func suggestionFor(kind string) string {
	switch kind {
	case KindRateLimited:
		return "Please try again later. The API is currently experiencing high demand."
	case KindConnectionFailure:
		return "Please check your internet connection and try again."
	case KindMalformedRequest:
		return "The API request was malformed. Please check your inputs."
	case KindGenericProviderError:
		return "There was an issue with the API. Please try again later."
	default:
		return "An unexpected error occurred. Please try again or contact support."
	}
}
