package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
)

type rawQuestion struct {
	ID           string          `json:"id,omitempty"`
	Question     string          `json:"question"`
	Answer       json.RawMessage `json:"answer"`
	AnswerFormat string          `json:"answer_format"`
	DocID        string          `json:"doc_id"`
	Evidence     json.RawMessage `json:"evidence,omitempty"`
}

// Load reads and validates a dataset file: a JSON array of question
// records. Any malformed or incomplete record fails the whole load; a bad
// dataset is a configuration error surfaced before any work begins.
func Load(path string) ([]Question, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	var rows []rawQuestion
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: %q: no questions", path)
	}

	out := make([]Question, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		q, err := fromRow(&row)
		if err != nil {
			return nil, fmt.Errorf("dataset: %q: record %d: %w", path, i, err)
		}
		if _, ok := seen[q.ID]; ok {
			return nil, fmt.Errorf("dataset: %q: record %d: duplicate id %q", path, i, q.ID)
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out, nil
}

func fromRow(row *rawQuestion) (Question, error) {
	text := strings.TrimSpace(row.Question)
	if text == "" {
		return Question{}, fmt.Errorf("missing question text")
	}
	docID := strings.TrimSpace(row.DocID)
	if docID == "" {
		return Question{}, fmt.Errorf("missing doc_id")
	}
	if strings.TrimSpace(row.AnswerFormat) == "" {
		return Question{}, fmt.Errorf("missing answer_format")
	}

	format, err := answer.ParseFormat(row.AnswerFormat)
	if err != nil {
		return Question{}, err
	}

	gt, gtList, err := decodeAnswer(row.Answer, format)
	if err != nil {
		return Question{}, err
	}

	id := strings.TrimSpace(row.ID)
	if id == "" {
		id = DeriveID(docID, text)
	}

	return Question{
		ID:              id,
		Text:            text,
		DocID:           docID,
		Format:          format,
		GroundTruth:     gt,
		GroundTruthList: gtList,
		Evidence:        row.Evidence,
	}, nil
}

// decodeAnswer accepts the ground-truth shapes the dataset uses: a JSON
// string, a number, an array of strings, or null (unanswerable).
func decodeAnswer(raw json.RawMessage, format answer.Format) (string, []string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if format == answer.FormatList {
			return s, answer.ParseList(s), nil
		}
		return s, nil, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), nil, nil
	}

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		if format != answer.FormatList {
			return "", nil, fmt.Errorf("array answer with format %v", format)
		}
		elems := make([]string, 0, len(arr))
		for _, v := range arr {
			e := strings.TrimSpace(fmt.Sprint(v))
			if e == "" {
				continue
			}
			elems = append(elems, e)
		}
		return strings.Join(elems, ", "), elems, nil
	}

	return "", nil, fmt.Errorf("unsupported answer value %s", string(raw))
}
