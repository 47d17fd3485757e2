package scorer

import (
	"fmt"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

// Method tags identify which scoring branch produced a result.
const (
	MethodInteger        = "integer"
	MethodFloat          = "float"
	MethodSubstring      = "substring"
	MethodExactPattern   = "exact_pattern"
	MethodANLS           = "anls"
	MethodListF1         = "list_f1"
	MethodListOrdered    = "list_ordered"
	MethodUnanswerable   = "unanswerable"
	MethodParseError     = "parse_error"
	MethodPredictorError = "predictor_error"
)

// CorrectThreshold is the score at or above which a result counts as
// correct.
const CorrectThreshold = 0.5

// Result is the scoring outcome for one (prediction, ground truth) pair.
type Result struct {
	QuestionID     string  `json:"question_id"`
	Score          float64 `json:"score"`
	Correct        bool    `json:"correct"`
	Method         string  `json:"method"`
	NormalizedGT   string  `json:"normalized_gt"`
	NormalizedPred string  `json:"normalized_pred"`
}

// comparator scores one normalized ground truth against one raw
// prediction. Implementations are pure and never block.
type comparator interface {
	compare(q *dataset.Question, rawPred string) (comparison, error)
}

type comparison struct {
	score          float64
	method         string
	normalizedGT   string
	normalizedPred string
}

// Evaluator scores predictions against ground truth by answer format.
// The zero value is not usable; construct with New.
type Evaluator struct {
	integer      integerComparator
	float        floatComparator
	text         textComparator
	list         listComparator
	unanswerable unanswerableComparator
}

// New returns an Evaluator with the default thresholds: 0.5 for string
// similarity, 0.8 for list-element matching.
func New() *Evaluator {
	return NewWithThresholds(answer.DefaultThreshold, answer.ListElementThreshold)
}

// NewWithThresholds returns an Evaluator with explicit similarity
// thresholds for string answers and list elements.
func NewWithThresholds(stringThreshold, listElementThreshold float64) *Evaluator {
	return &Evaluator{
		text: textComparator{matcher: answer.NewMatcher(stringThreshold)},
		list: listComparator{matcher: answer.NewMatcher(listElementThreshold)},
	}
}

// Evaluate scores a raw predicted answer for a question. Parse failures
// degrade to a zero score tagged parse_error; one bad answer must never
// abort a batch. The result is deterministic for fixed inputs.
func (e *Evaluator) Evaluate(q *dataset.Question, rawPred string) Result {
	if e == nil || q == nil {
		return Result{Method: MethodParseError}
	}

	c, err := e.forFormat(q.Format).compare(q, rawPred)
	if err != nil {
		return Result{
			QuestionID:     q.ID,
			Score:          0,
			Correct:        false,
			Method:         MethodParseError,
			NormalizedGT:   answer.Normalize(q.GroundTruth, q.Format),
			NormalizedPred: answer.Normalize(rawPred, q.Format),
		}
	}

	correct := c.score >= CorrectThreshold
	if c.method == MethodANLS {
		// The graded similarity branch honors the configured string
		// threshold rather than the fixed correctness cut.
		correct = c.score >= e.text.matcher.Threshold
	}

	return Result{
		QuestionID:     q.ID,
		Score:          c.score,
		Correct:        correct,
		Method:         c.method,
		NormalizedGT:   c.normalizedGT,
		NormalizedPred: c.normalizedPred,
	}
}

// EvaluateError records a terminal predictor failure as a scored-zero
// result so an infrastructure outage is never conflated with a wrong
// answer. The failure itself is persisted alongside the result by the
// caller.
func (e *Evaluator) EvaluateError(q *dataset.Question) Result {
	res := Result{Method: MethodPredictorError}
	if q != nil {
		res.QuestionID = q.ID
		res.NormalizedGT = answer.Normalize(q.GroundTruth, q.Format)
	}
	return res
}

func (e *Evaluator) forFormat(f answer.Format) comparator {
	switch f {
	case answer.FormatInteger:
		return e.integer
	case answer.FormatFloat:
		return e.float
	case answer.FormatString:
		return e.text
	case answer.FormatList:
		return e.list
	case answer.FormatUnanswerable:
		return e.unanswerable
	default:
		return failComparator{format: f}
	}
}

// failComparator backstops an out-of-range Format value.
type failComparator struct {
	format answer.Format
}

func (c failComparator) compare(*dataset.Question, string) (comparison, error) {
	return comparison{}, fmt.Errorf("scorer: unknown format %v", c.format)
}
