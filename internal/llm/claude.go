package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const (
	defaultClaudeModel = "claude-sonnet-4-5-20250929"
	apiVersionHeader   = "2023-06-01"
)

type ClaudeProvider struct {
	client *anthropic.Client
	model  string
}

func NewClaudeProvider(apiKey string, baseURL string, model string) *ClaudeProvider {
	apiKey = strings.TrimSpace(apiKey)
	authToken := ""
	if apiKey == "" {
		if envKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); envKey != "" {
			apiKey = envKey
		} else if envToken := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); envToken != "" {
			authToken = envToken
		}
	}

	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL"))
	}

	opts := make([]option.RequestOption, 0, 4)
	if base != "" {
		opts = append(opts, option.WithBaseURL(sdkBaseURL(base)))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else if authToken != "" {
		opts = append(opts, option.WithAuthToken(authToken))
	}
	// Retries are handled by callers; the SDK must not retry on its own.
	opts = append(opts, option.WithMaxRetries(0))
	opts = append(opts, option.WithHeader("anthropic-version", apiVersionHeader))

	m := strings.TrimSpace(model)
	if m == "" {
		m = defaultClaudeModel
	}

	client := anthropic.NewClient(opts...)
	return &ClaudeProvider{
		client: &client,
		model:  m,
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("llm: claude: nil client")
	}
	if ctx == nil {
		return nil, errors.New("llm: claude: nil context")
	}
	if req == nil {
		return nil, errors.New("llm: claude: nil request")
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, anthropic.MessageParam{
			Role:    toSDKRole(m.Role),
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
		})
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  messages,
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: system,
			Type: "text",
		}}
	}
	if req.Temperature != 0 {
		params.Temperature = param.NewOpt(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, normalizeClaudeError(err)
	}
	return fromSDKMessage(msg), nil
}

func toSDKRole(role string) anthropic.MessageParamRole {
	if strings.EqualFold(strings.TrimSpace(role), "assistant") {
		return anthropic.MessageParamRoleAssistant
	}
	return anthropic.MessageParamRoleUser
}

func sdkBaseURL(base string) string {
	base = strings.TrimSpace(strings.TrimRight(base, "/"))
	if strings.HasSuffix(base, "/v1") {
		base = strings.TrimSuffix(base, "/v1")
	}
	return base
}

func fromSDKMessage(msg *anthropic.Message) *Response {
	if msg == nil {
		return nil
	}

	out := &Response{
		StopReason:   string(msg.StopReason),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	out.Text = sb.String()
	return out
}

// APIError represents a non-2xx response from a provider API.
type APIError struct {
	Provider   string
	StatusCode int
	Status     string
	RequestID  string
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "llm: api error <nil>"
	}

	msg := strings.TrimSpace(e.Message)
	switch {
	case e.Type != "" && msg != "":
		return fmt.Sprintf("llm: %s: api error (%s): %s: %s", e.Provider, e.Status, e.Type, msg)
	case msg != "":
		return fmt.Sprintf("llm: %s: api error (%s): %s", e.Provider, e.Status, msg)
	default:
		return fmt.Sprintf("llm: %s: api error (%s)", e.Provider, e.Status)
	}
}

type claudeErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func normalizeClaudeError(err error) error {
	if err == nil {
		return nil
	}

	var sdkErr *anthropic.Error
	if !errors.As(err, &sdkErr) {
		return err
	}

	apiErr := &APIError{
		Provider:   "claude",
		StatusCode: sdkErr.StatusCode,
		RequestID:  sdkErr.RequestID,
	}
	if sdkErr.Response != nil {
		apiErr.Status = sdkErr.Response.Status
	} else if sdkErr.StatusCode != 0 {
		apiErr.Status = fmt.Sprintf("%d %s", sdkErr.StatusCode, http.StatusText(sdkErr.StatusCode))
	}

	if raw := strings.TrimSpace(sdkErr.RawJSON()); raw != "" {
		var env claudeErrorEnvelope
		if json.Unmarshal([]byte(raw), &env) == nil {
			apiErr.Type = env.Error.Type
			apiErr.Message = env.Error.Message
		}
	}

	return apiErr
}
