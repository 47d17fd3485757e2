package main

import (
	"strings"
	"testing"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/report"
	"github.com/tyyim/esg-reason-sub000/internal/runner"
)

func TestColoredCount(t *testing.T) {
	t.Parallel()

	if got := coloredCount(0, colorRed); got != "0" {
		t.Fatalf("coloredCount(0) = %q", got)
	}
	got := coloredCount(3, colorGreen)
	if !strings.Contains(got, "3") || !strings.Contains(got, colorGreen) || !strings.HasSuffix(got, colorReset) {
		t.Fatalf("coloredCount(3) = %q", got)
	}
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	p := runner.Progress{
		Done:      4,
		Total:     10,
		Correct:   3,
		Failed:    1,
		LastID:    "q4",
		LastScore: 0.5,
		ETA:       90 * time.Second,
	}
	got := formatProgress(p)
	for _, want := range []string{"[4/10]", "q4", "score=0.500", "correct=3", "failed=1", "eta=1m30s"} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatProgress = %q, missing %q", got, want)
		}
	}

	p.ETA = 0
	if got := formatProgress(p); strings.Contains(got, "eta=") {
		t.Fatalf("formatProgress with zero ETA = %q", got)
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	if got := formatSummary(nil); got != "Summary: <nil>\n" {
		t.Fatalf("formatSummary(nil) = %q", got)
	}

	sum := &runner.Summary{
		Total:     10,
		Skipped:   2,
		Attempted: 8,
		Correct:   6,
		Failed:    1,
		Elapsed:   12 * time.Second,
	}
	got := formatSummary(sum)
	for _, want := range []string{"total=10", "skipped=2", "attempted=8", "elapsed=12s"} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatSummary = %q, missing %q", got, want)
		}
	}
	if !strings.Contains(got, colorGreen) || !strings.Contains(got, colorRed) {
		t.Fatalf("formatSummary = %q, expected colored counts", got)
	}
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	if got := formatReport(nil); got != "Report: <nil>\n" {
		t.Fatalf("formatReport(nil) = %q", got)
	}

	r := &report.Report{
		OverallAccuracy: 0.75,
		Total:           4,
		Correct:         3,
		Errored:         1,
		ByFormat: map[string]report.FormatStats{
			"str": {Accuracy: 1, Correct: 2, Total: 2},
			"int": {Accuracy: 0.5, Correct: 1, Total: 2},
		},
	}
	got := formatReport(r)
	if !strings.Contains(got, "Accuracy: 0.7500 (3/4 correct, 1 errored)") {
		t.Fatalf("formatReport = %q", got)
	}
	intIdx := strings.Index(got, "int")
	strIdx := strings.Index(got, "str")
	if intIdx < 0 || strIdx < 0 || intIdx > strIdx {
		t.Fatalf("formatReport = %q, expected formats sorted", got)
	}
}
