package scorer

import (
	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

// unanswerableComparator collapses both sides through the null-synonym
// map and requires the canonical forms to be equal.
type unanswerableComparator struct{}

func (unanswerableComparator) compare(q *dataset.Question, rawPred string) (comparison, error) {
	gtNorm := answer.Normalize(q.GroundTruth, answer.FormatUnanswerable)
	predNorm := answer.Normalize(rawPred, answer.FormatUnanswerable)

	out := comparison{method: MethodUnanswerable, normalizedGT: gtNorm, normalizedPred: predNorm}
	if gtNorm == predNorm {
		out.score = 1.0
	}
	return out, nil
}
