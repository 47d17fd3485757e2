package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

func q(id string, f answer.Format) dataset.Question {
	return dataset.Question{ID: id, Text: "?", DocID: "doc.pdf", Format: f, GroundTruth: "x"}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	questions := []dataset.Question{
		q("q1", answer.FormatInteger),
		q("q2", answer.FormatInteger),
		q("q3", answer.FormatString),
		q("q4", answer.FormatString),
		q("q5", answer.FormatList),
	}

	rec := checkpoint.Record{
		"q1": {QuestionID: "q1", Correct: true, Score: 1.0},
		"q2": {QuestionID: "q2", Correct: false, Score: 0},
		"q3": {QuestionID: "q3", Correct: true, Score: 0.9},
		"q4": {QuestionID: "q4", Error: "overloaded"},
		// q5 has no entry and must not be counted
	}

	r := Build(questions, rec)

	if r.Total != 4 {
		t.Fatalf("Total: got %d want 4", r.Total)
	}
	if r.Correct != 2 {
		t.Fatalf("Correct: got %d want 2", r.Correct)
	}
	if r.Errored != 1 {
		t.Fatalf("Errored: got %d want 1", r.Errored)
	}
	if math.Abs(r.OverallAccuracy-0.5) > 1e-9 {
		t.Fatalf("OverallAccuracy: got %v want 0.5", r.OverallAccuracy)
	}

	ints := r.ByFormat[answer.FormatInteger.String()]
	if ints.Total != 2 || ints.Correct != 1 || math.Abs(ints.Accuracy-0.5) > 1e-9 {
		t.Fatalf("Int stats: %+v", ints)
	}
	strs := r.ByFormat[answer.FormatString.String()]
	if strs.Total != 2 || strs.Correct != 1 {
		t.Fatalf("Str stats: %+v", strs)
	}
	if _, ok := r.ByFormat[answer.FormatList.String()]; ok {
		t.Fatalf("List stats present for unevaluated question")
	}

	if _, err := time.Parse(time.RFC3339, r.GeneratedAt); err != nil {
		t.Fatalf("GeneratedAt: %v", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	r := Build(nil, checkpoint.Record{})
	if r.Total != 0 || r.OverallAccuracy != 0 {
		t.Fatalf("empty report: %+v", r)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	r := Build(
		[]dataset.Question{q("q1", answer.FormatInteger)},
		checkpoint.Record{"q1": {QuestionID: "q1", Correct: true, Score: 1.0}},
	)

	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := Write(path, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Total != 1 || got.Correct != 1 || got.OverallAccuracy != 1.0 {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestWriteErrors(t *testing.T) {
	t.Parallel()

	if err := Write("", &Report{}); err == nil {
		t.Fatalf("empty path: expected error")
	}
	if err := Write(filepath.Join(t.TempDir(), "r.json"), nil); err == nil {
		t.Fatalf("nil report: expected error")
	}
}
