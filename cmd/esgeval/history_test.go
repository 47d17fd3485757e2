package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/store"
)

// seedHistory writes a config pointing at a temp sqlite file and stores
// one finished run in it. Returns the config path and the run id.
func seedHistory(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	configPath := filepath.Join(dir, "config.yaml")
	configYAML := fmt.Sprintf("storage:\n  type: sqlite\n  path: %s\n", dbPath)
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	started := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	runID := store.NewRunID(started)
	run := store.RunRecord{
		ID:             runID,
		Dataset:        "mmesgbench",
		Provider:       "claude",
		Model:          "claude-sonnet-4-5-20250929",
		StartedAt:      started,
		FinishedAt:     started.Add(5 * time.Minute),
		TotalQuestions: 2,
		Correct:        1,
		Errored:        0,
		Accuracy:       0.5,
	}
	ctx := context.Background()
	if err := st.SaveRun(ctx, &run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	results := []store.ResultRecord{
		{RunID: runID, QuestionID: "q1", RawAnswer: "42", Score: 1, Correct: true, Method: "integer", LatencyMs: 850},
		{RunID: runID, QuestionID: "q2", RawAnswer: "blue", Score: 0, Correct: false, Method: "anls", LatencyMs: 910},
	}
	if err := st.SaveResults(ctx, runID, results); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}
	return configPath, runID
}

func TestHistoryList(t *testing.T) {
	configPath, runID := seedHistory(t)

	out, err := execute(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, want := range []string{"RUN", runID, "mmesgbench", "claude", "0.5000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestHistoryListProviderFilter(t *testing.T) {
	configPath, _ := seedHistory(t)

	out, err := execute(t, "--config", configPath, "history", "--provider", "openai")
	if err != nil {
		t.Fatalf("history --provider: %v", err)
	}
	if !strings.Contains(out, "No runs found.") {
		t.Fatalf("output %q, expected no runs", out)
	}
}

func TestHistoryListBadSince(t *testing.T) {
	configPath, _ := seedHistory(t)

	_, err := execute(t, "--config", configPath, "history", "--since", "yesterday")
	if err == nil || !strings.Contains(err.Error(), "--since") {
		t.Fatalf("history --since: got err %v", err)
	}
}

func TestHistoryShow(t *testing.T) {
	configPath, runID := seedHistory(t)

	out, err := execute(t, "--config", configPath, "history", "show", runID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	for _, want := range []string{"Run: " + runID, "mmesgbench", "Accuracy: 0.5000", "q1", "q2", "integer", "anls"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestHistoryShowMissing(t *testing.T) {
	configPath, _ := seedHistory(t)

	_, err := execute(t, "--config", configPath, "history", "show", "run_nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("history show missing: got err %v", err)
	}
}

func TestParseSince(t *testing.T) {
	t.Parallel()

	if got, err := parseSince(""); err != nil || !got.IsZero() {
		t.Fatalf("parseSince(empty) = %v, %v", got, err)
	}
	got, err := parseSince("2026-08-01")
	if err != nil {
		t.Fatalf("parseSince(date): %v", err)
	}
	if want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("parseSince(date) = %v", got)
	}
	if _, err := parseSince("2026-08-01T12:30:00Z"); err != nil {
		t.Fatalf("parseSince(rfc3339): %v", err)
	}
	if _, err := parseSince("last tuesday"); err == nil {
		t.Fatalf("parseSince(garbage): expected error")
	}
}
