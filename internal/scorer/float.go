package scorer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

// floatEpsilon is the absolute tolerance floor, so a ground truth of zero
// still accepts predictions within it.
const floatEpsilon = 1e-6

// floatComparator accepts predictions within 1% of the ground truth's
// magnitude.
type floatComparator struct{}

func (floatComparator) compare(q *dataset.Question, rawPred string) (comparison, error) {
	gtNorm := answer.Normalize(q.GroundTruth, answer.FormatFloat)
	predNorm := answer.Normalize(rawPred, answer.FormatFloat)

	gt, err := strconv.ParseFloat(gtNorm, 64)
	if err != nil {
		return comparison{}, fmt.Errorf("scorer: float ground truth %q: %w", q.GroundTruth, err)
	}

	out := comparison{method: MethodFloat, normalizedGT: gtNorm, normalizedPred: predNorm}

	pred, err := strconv.ParseFloat(predNorm, 64)
	if err != nil {
		return comparison{}, fmt.Errorf("scorer: float prediction %q: %w", rawPred, err)
	}

	tolerance := math.Max(0.01*math.Abs(gt), floatEpsilon)
	if math.Abs(gt-pred) <= tolerance {
		out.score = 1.0
	}
	return out, nil
}
