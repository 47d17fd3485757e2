// Package checkpoint persists per-question evaluation outcomes keyed by
// question id. The checkpoint file is the single source of truth for
// resuming a run: load, diff against the dataset, and skip everything
// already terminal.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is the persisted outcome for one question.
type Entry struct {
	QuestionID     string    `json:"question_id"`
	RawAnswer      string    `json:"raw_answer"`
	Score          float64   `json:"score"`
	Correct        bool      `json:"correct"`
	Method         string    `json:"method"`
	NormalizedGT   string    `json:"normalized_gt,omitempty"`
	NormalizedPred string    `json:"normalized_pred,omitempty"`
	Error          string    `json:"error,omitempty"`
	LatencyMs      int64     `json:"latency_ms,omitempty"`
	Timestamp      time.Time `json:"timestamp"`

	// Retryable marks an entry that may be recomputed on resume. Entries
	// the runner writes are terminal; Retryable is set only when an
	// operator reopens failed questions.
	Retryable bool `json:"retryable,omitempty"`
}

// Terminal reports whether the entry must never be recomputed.
func (e *Entry) Terminal() bool {
	return e != nil && !e.Retryable
}

// Failed reports whether the entry records a predictor failure rather
// than a scored answer.
func (e *Entry) Failed() bool {
	return e != nil && e.Error != ""
}

// Record maps question ids to their persisted outcomes. It grows
// monotonically during a run and is only ever discarded by the operator.
type Record map[string]Entry

// CorruptError distinguishes "checkpoint exists but cannot be read" from
// "no prior run". Silently discarding a corrupt checkpoint could repeat
// paid predictor calls or drop prior results, so callers must surface it.
type CorruptError struct {
	Path string
	Err  error
}

// Error formats the corruption report.
func (e *CorruptError) Error() string {
	return fmt.Sprintf("checkpoint: %q is not a valid checkpoint: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying decode error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Load reads a checkpoint file. A missing file yields an empty record; an
// unreadable or unparseable file yields a CorruptError.
func Load(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return nil, fmt.Errorf("checkpoint: read %q: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// Save writes the record atomically: serialize to a temp file in the
// target directory, then rename over the path. A crash mid-write never
// leaves a half-written checkpoint behind.
func Save(path string, rec Record) error {
	if path == "" {
		return fmt.Errorf("checkpoint: empty path")
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("checkpoint: create dir %q: %w", dir, err)
		}
	}

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("checkpoint: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("checkpoint: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("checkpoint: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("checkpoint: rename: %w", err)
	}
	return nil
}

// Merge applies new entries to the record. An entry for a question id
// already marked terminal is rejected, so re-applying results is
// idempotent; a retryable prior entry is overwritten. Returns the number
// of entries applied.
func (r Record) Merge(entries ...Entry) int {
	applied := 0
	for _, e := range entries {
		if e.QuestionID == "" {
			continue
		}
		if prev, ok := r[e.QuestionID]; ok && prev.Terminal() {
			continue
		}
		r[e.QuestionID] = e
		applied++
	}
	return applied
}

// TerminalIDs returns the set of question ids that must not be
// recomputed on resume.
func (r Record) TerminalIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(r))
	for id, e := range r {
		if e.Terminal() {
			out[id] = struct{}{}
		}
	}
	return out
}

// ReopenFailed marks every failed entry retryable, so a resume
// recomputes it. Used only at explicit operator request.
func (r Record) ReopenFailed() int {
	n := 0
	for id, e := range r {
		if e.Failed() && e.Terminal() {
			e.Retryable = true
			r[id] = e
			n++
		}
	}
	return n
}
