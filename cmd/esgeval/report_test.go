package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
	"github.com/tyyim/esg-reason-sub000/internal/report"
)

func TestReportCommand(t *testing.T) {
	datasetPath := writeDataset(t)
	cpPath := filepath.Join(t.TempDir(), "cp.json")
	now := time.Now().UTC()
	writeCheckpoint(t, cpPath, checkpoint.Record{
		"q1": {QuestionID: "q1", RawAnswer: "1200", Score: 1, Correct: true, Method: "integer", Timestamp: now},
		"q2": {QuestionID: "q2", RawAnswer: "Europe", Score: 0.5, Correct: false, Method: "list_f1", Timestamp: now},
	})

	out, err := execute(t, "report", "--dataset", datasetPath, "--checkpoint", cpPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Accuracy:", "Int", "List"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestReportCommandWritesOutput(t *testing.T) {
	datasetPath := writeDataset(t)
	dir := t.TempDir()
	cpPath := filepath.Join(dir, "cp.json")
	outPath := filepath.Join(dir, "report.json")
	writeCheckpoint(t, cpPath, checkpoint.Record{
		"q1": {QuestionID: "q1", RawAnswer: "1200", Score: 1, Correct: true, Method: "integer", Timestamp: time.Now().UTC()},
	})

	if _, err := execute(t, "report", "--dataset", datasetPath, "--checkpoint", cpPath, "--output", outPath); err != nil {
		t.Fatalf("report --output: %v", err)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if rep.Total != 1 || rep.Correct != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestReportCommandEmptyCheckpoint(t *testing.T) {
	datasetPath := writeDataset(t)
	cpPath := filepath.Join(t.TempDir(), "cp.json")

	_, err := execute(t, "report", "--dataset", datasetPath, "--checkpoint", cpPath)
	if err == nil || !strings.Contains(err.Error(), "no entries") {
		t.Fatalf("report on empty checkpoint: got err %v", err)
	}
}
