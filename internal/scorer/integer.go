package scorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

// integerComparator requires exact numeric equality. No fuzziness: 5 and
// 5.0 are equal, 5 and 6 are not, and "five" does not parse. Comparison
// is in int64 so counts beyond float64 precision stay distinct.
type integerComparator struct{}

func (integerComparator) compare(q *dataset.Question, rawPred string) (comparison, error) {
	gtNorm := answer.Normalize(q.GroundTruth, answer.FormatInteger)
	predNorm := answer.Normalize(rawPred, answer.FormatInteger)

	gt, err := parseInt64(gtNorm)
	if err != nil {
		return comparison{}, fmt.Errorf("scorer: integer ground truth %q: %w", q.GroundTruth, err)
	}

	out := comparison{method: MethodInteger, normalizedGT: gtNorm, normalizedPred: predNorm}

	pred, err := parseInt64(predNorm)
	if err != nil {
		return comparison{}, fmt.Errorf("scorer: integer prediction %q: %w", rawPred, err)
	}
	if pred == gt {
		out.score = 1.0
	}
	return out, nil
}

// parseInt64 parses a normalized number as int64, dropping a trailing
// all-zero fraction so "5.0" parses as 5. A nonzero fraction fails.
func parseInt64(s string) (int64, error) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if frac := s[i+1:]; frac != "" && strings.Trim(frac, "0") == "" {
			s = s[:i]
		}
	}
	return strconv.ParseInt(s, 10, 64)
}
