package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type timeoutErr struct{ timeout bool }

func (e timeoutErr) Error() string   { return "net: deadline" }
func (e timeoutErr) Timeout() bool   { return e.timeout }
func (e timeoutErr) Temporary() bool { return false }

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Nil", err: nil, want: false},
		{name: "Plain", err: errors.New("boom"), want: false},
		{name: "RateLimited", err: &APIError{Provider: "claude", StatusCode: 429}, want: true},
		{name: "ServerError", err: &APIError{Provider: "claude", StatusCode: 503}, want: true},
		{name: "Unauthorized", err: &APIError{Provider: "claude", StatusCode: 401}, want: false},
		{name: "BadRequest", err: &APIError{Provider: "claude", StatusCode: 400}, want: false},
		{name: "OpenAIRateLimited", err: &openai.APIError{HTTPStatusCode: 429}, want: true},
		{name: "OpenAIServerError", err: &openai.APIError{HTTPStatusCode: 500}, want: true},
		{name: "OpenAIInvalidKey", err: &openai.APIError{HTTPStatusCode: 401}, want: false},
		{name: "OpenAIRequestError", err: &openai.RequestError{HTTPStatusCode: 502}, want: true},
		{name: "DeadlineExceeded", err: context.DeadlineExceeded, want: true},
		{name: "Canceled", err: context.Canceled, want: false},
		{name: "NetTimeout", err: timeoutErr{timeout: true}, want: true},
		{name: "NetNonTimeout", err: timeoutErr{timeout: false}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%v): got %v want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	t.Parallel()

	var nilErr *APIError
	if got := nilErr.Error(); got != "llm: api error <nil>" {
		t.Fatalf("nil error string: got %q", got)
	}

	err := &APIError{
		Provider:   "claude",
		StatusCode: 429,
		Status:     "429 Too Many Requests",
		Type:       "rate_limit_error",
		Message:    "slow down",
	}
	want := "llm: claude: api error (429 Too Many Requests): rate_limit_error: slow down"
	if got := err.Error(); got != want {
		t.Fatalf("error string: got %q want %q", got, want)
	}
}
