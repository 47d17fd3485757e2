package llm

import "context"

// Provider is a single-shot text completion backend. Predictions in this
// system are one request, one answer string; there is no tool loop.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages    []Message
	System      string
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Text         string
	StopReason   string
	InputTokens  int
	OutputTokens int
}
