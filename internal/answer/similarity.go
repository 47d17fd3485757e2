package answer

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Default pass thresholds for normalized Levenshtein similarity. String
// answers accept anything requiring fewer edits than half the longer
// string; list elements are held to a stricter bar.
const (
	DefaultThreshold     = 0.5
	ListElementThreshold = 0.8
)

// Matcher applies a pass/fail threshold to ANLS similarity.
type Matcher struct {
	Threshold float64
}

// NewMatcher returns a Matcher with the given threshold, defaulted when
// out of range.
func NewMatcher(threshold float64) Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return Matcher{Threshold: threshold}
}

// Similarity computes the normalized Levenshtein similarity of a and b:
// 1 minus edit distance divided by the longer string's rune length,
// clamped to [0,1]. Two empty strings are identical.
func Similarity(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1.0
	}

	longest := la
	if lb > longest {
		longest = lb
	}

	d := levenshtein.ComputeDistance(a, b)
	sim := 1.0 - float64(d)/float64(longest)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// Matches reports whether the similarity of a and b clears the threshold.
func (m Matcher) Matches(a, b string) bool {
	t := m.Threshold
	if t <= 0 || t > 1 {
		t = DefaultThreshold
	}
	return Similarity(a, b) >= t
}

// BestSimilarity returns the maximum similarity of pred against any
// candidate. With no candidates it returns 0.
func BestSimilarity(candidates []string, pred string) float64 {
	best := 0.0
	for _, c := range candidates {
		if s := Similarity(c, pred); s > best {
			best = s
		}
	}
	return best
}
