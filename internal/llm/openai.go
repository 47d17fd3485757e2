package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey string, baseURL string, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = "gpt-4o"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("llm: openai: nil client")
	}
	if ctx == nil {
		return nil, errors.New("llm: openai: nil context")
	}
	if req == nil {
		return nil, errors.New("llm: openai: nil request")
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if system := strings.TrimSpace(req.System); system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    normalizeOpenAIRole(m.Role),
			Content: m.Content,
		})
	}

	r := openai.ChatCompletionRequest{
		Model:       strings.TrimSpace(p.model),
		Messages:    msgs,
		MaxTokens:   clampMaxTokens(req.MaxTokens),
		Temperature: float32(req.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("llm: openai: empty choices")
	}

	choice := resp.Choices[0]
	return &Response{
		Text:         choice.Message.Content,
		StopReason:   string(choice.FinishReason),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func normalizeOpenAIRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant:
		return role
	default:
		return openai.ChatMessageRoleUser
	}
}

func clampMaxTokens(n int) int {
	if n <= 0 {
		return 0
	}
	return n
}
