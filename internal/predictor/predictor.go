package predictor

import (
	"context"
	"errors"
	"strings"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
	"github.com/tyyim/esg-reason-sub000/internal/llm"
	"github.com/tyyim/esg-reason-sub000/internal/retry"
)

// Predictor produces a raw model answer for a benchmark question.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, q *dataset.Question, docContext string) (string, error)
}

const systemPrompt = "You are an analyst answering questions about corporate ESG and sustainability reports. " +
	"Answer strictly from the provided document content. " +
	"If the document does not contain the answer, reply with exactly \"unanswerable\"."

type LLMPredictor struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

func NewLLMPredictor(provider llm.Provider) *LLMPredictor {
	return &LLMPredictor{
		provider:  provider,
		maxTokens: 1024,
	}
}

func (p *LLMPredictor) Name() string {
	if p == nil || p.provider == nil {
		return ""
	}
	return p.provider.Name()
}

// Predict asks the provider for an answer. Transient provider failures
// are marked retryable so callers can back off and try again.
func (p *LLMPredictor) Predict(ctx context.Context, q *dataset.Question, docContext string) (string, error) {
	if p == nil || p.provider == nil {
		return "", errors.New("predictor: nil provider")
	}
	if ctx == nil {
		return "", errors.New("predictor: nil context")
	}
	if q == nil {
		return "", errors.New("predictor: nil question")
	}

	req := &llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: formatPrompt(q, docContext)}},
		System:      systemPrompt,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	resp, err := p.provider.Complete(ctx, req)
	if err != nil {
		if llm.IsRetryable(err) {
			return "", retry.Transient(err)
		}
		return "", err
	}
	if resp == nil {
		return "", errors.New("predictor: nil response")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.New("predictor: empty completion")
	}
	return text, nil
}

func formatPrompt(q *dataset.Question, docContext string) string {
	var sb strings.Builder
	if ctxText := strings.TrimSpace(docContext); ctxText != "" {
		sb.WriteString("Document (")
		sb.WriteString(strings.TrimSpace(q.DocID))
		sb.WriteString("):\n")
		sb.WriteString(ctxText)
		sb.WriteString("\n\n")
	} else if doc := strings.TrimSpace(q.DocID); doc != "" {
		sb.WriteString("Document: ")
		sb.WriteString(doc)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(strings.TrimSpace(q.Text))
	sb.WriteString("\n\n")
	sb.WriteString(formatInstruction(q.Format))
	sb.WriteByte('\n')
	return sb.String()
}

func formatInstruction(f answer.Format) string {
	switch f {
	case answer.FormatInteger:
		return "Reply with only the final integer."
	case answer.FormatFloat:
		return "Reply with only the final number."
	case answer.FormatList:
		return "Reply with a JSON array of short strings, nothing else."
	case answer.FormatUnanswerable:
		return "Reply with exactly \"unanswerable\" if the document does not answer the question."
	default:
		return "Reply with a short, direct answer."
	}
}
