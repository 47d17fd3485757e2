// Package report aggregates checkpointed outcomes into accuracy
// figures, overall and per answer format.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

type FormatStats struct {
	Accuracy float64 `json:"accuracy"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
}

type Report struct {
	OverallAccuracy float64                `json:"overall_accuracy"`
	Total           int                    `json:"total"`
	Correct         int                    `json:"correct"`
	Errored         int                    `json:"errored"`
	ByFormat        map[string]FormatStats `json:"by_format"`
	GeneratedAt     string                 `json:"generated_at"`
}

// Build aggregates the entries recorded for questions. Questions with
// no entry are not counted; failed entries count as incorrect.
func Build(questions []dataset.Question, rec checkpoint.Record) *Report {
	out := &Report{
		ByFormat:    make(map[string]FormatStats),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for i := range questions {
		q := &questions[i]
		e, ok := rec[q.ID]
		if !ok {
			continue
		}

		out.Total++
		if e.Failed() {
			out.Errored++
		}

		fs := out.ByFormat[q.Format.String()]
		fs.Total++
		if e.Correct {
			out.Correct++
			fs.Correct++
		}
		out.ByFormat[q.Format.String()] = fs
	}

	if out.Total > 0 {
		out.OverallAccuracy = float64(out.Correct) / float64(out.Total)
	}
	for name, fs := range out.ByFormat {
		if fs.Total > 0 {
			fs.Accuracy = float64(fs.Correct) / float64(fs.Total)
		}
		out.ByFormat[name] = fs
	}
	return out
}

// Write saves the report as indented JSON.
func Write(path string, r *Report) error {
	if r == nil {
		return errors.New("report: nil report")
	}
	if path == "" {
		return errors.New("report: empty path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}
