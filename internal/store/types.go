package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// RunWriter defines persistence for run summaries and per-question
// results.
type RunWriter interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	SaveResults(ctx context.Context, runID string, results []ResultRecord) error
}

// RunReader defines read access to run history.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error)
	GetResults(ctx context.Context, runID string) ([]*ResultRecord, error)
}

// Store defines persistence for evaluation runs.
type Store interface {
	RunWriter
	RunReader
	Close() error
}

// RunRecord stores a single evaluation run summary.
type RunRecord struct {
	ID             string         `json:"id"`
	Dataset        string         `json:"dataset"`
	Provider       string         `json:"provider"`
	Model          string         `json:"model,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	TotalQuestions int            `json:"total_questions"`
	Correct        int            `json:"correct"`
	Errored        int            `json:"errored"`
	Accuracy       float64        `json:"accuracy"`
	Config         map[string]any `json:"config,omitempty"`
}

// ResultRecord stores one scored question within a run.
type ResultRecord struct {
	RunID      string  `json:"run_id"`
	QuestionID string  `json:"question_id"`
	RawAnswer  string  `json:"raw_answer"`
	Score      float64 `json:"score"`
	Correct    bool    `json:"correct"`
	Method     string  `json:"method"`
	Error      string  `json:"error,omitempty"`
	LatencyMs  int64   `json:"latency_ms"`
}

// RunFilter filters run listings.
type RunFilter struct {
	Dataset  string
	Provider string
	Since    time.Time
	Until    time.Time
	Limit    int
}

// NewRunID returns a unique run identifier like run_20260830T120000Z_a1b2c3d4.
func NewRunID(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("run_%s_%s", now.UTC().Format("20060102T150405Z"), hex.EncodeToString(buf))
}
