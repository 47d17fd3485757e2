package scorer

import (
	"regexp"
	"strings"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

var (
	urlPattern   = regexp.MustCompile(`^(https?://|www\.)\S+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	datePattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})$`)
	// A "natural-language" answer contains at least one all-letter word of
	// three or more characters. Everything else (codes, identifiers, bare
	// numbers) must match exactly.
	naturalWord = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// textComparator applies the three-tier string policy: substring
// containment wins outright, exact-match-required patterns demand
// equality, everything else gets a graded ANLS score.
type textComparator struct {
	matcher answer.Matcher
}

func (c textComparator) compare(q *dataset.Question, rawPred string) (comparison, error) {
	gtNorm := answer.Normalize(q.GroundTruth, answer.FormatString)
	predNorm := answer.Normalize(rawPred, answer.FormatString)

	out := comparison{normalizedGT: gtNorm, normalizedPred: predNorm}

	if gtNorm != "" && strings.Contains(predNorm, gtNorm) {
		out.method = MethodSubstring
		out.score = 1.0
		return out, nil
	}

	if requiresExactMatch(gtNorm) {
		out.method = MethodExactPattern
		if gtNorm == predNorm {
			out.score = 1.0
		}
		return out, nil
	}

	out.method = MethodANLS
	out.score = answer.Similarity(gtNorm, predNorm)
	return out, nil
}

// requiresExactMatch reports whether a normalized ground truth belongs to
// the closed set of patterns where fuzzy matching is unsafe: URLs, email
// addresses, dates, and purely numeric or alphanumeric tokens.
func requiresExactMatch(s string) bool {
	if urlPattern.MatchString(s) || emailPattern.MatchString(s) || datePattern.MatchString(s) {
		return true
	}
	return s != "" && !naturalWord.MatchString(s)
}
