package answer

import (
	"regexp"
	"strings"
)

// Sentinel is the canonical normalized form of an unanswerable answer.
// Every synonym in nullSynonyms collapses to it before comparison.
const Sentinel = "unanswerable"

var nullSynonyms = map[string]struct{}{
	"":               {},
	"null":           {},
	"none":           {},
	"n/a":            {},
	"na":             {},
	"nil":            {},
	"not answerable": {},
	"cannot answer":  {},
	"fail to answer": {},
	"not applicable": {},
	"unanswerable":   {},
}

var numberPattern = regexp.MustCompile(`[-+]?(?:\d[\d,]*(?:\.\d+)?|\.\d+)`)

// Normalize canonicalizes a raw answer string for the given format.
//
// All formats are lowercased, trimmed, and have internal whitespace runs
// collapsed. Unanswerable answers additionally collapse null synonyms to
// Sentinel. Numeric formats extract the first signed decimal number found
// (shedding units, currency words, and a trailing percent sign); when no
// number parses the text falls back to the null-synonym path so that two
// "no answer" spellings still compare equal.
func Normalize(text string, format Format) string {
	s := normalizeText(text)

	switch format {
	case FormatInteger, FormatFloat:
		if n, ok := ExtractNumber(s); ok {
			return n
		}
		return canonicalizeNull(s)
	case FormatUnanswerable:
		return canonicalizeNull(s)
	default:
		return s
	}
}

// NormalizeElement canonicalizes one list element. Punctuation inside the
// element is preserved; list items are never run through the numeric path.
func NormalizeElement(text string) string {
	return normalizeText(text)
}

// IsNull reports whether a normalized string is a null synonym.
func IsNull(s string) bool {
	_, ok := nullSynonyms[normalizeText(s)]
	return ok
}

// ExtractNumber returns the first signed decimal number in s with digit
// group commas removed, or ok=false when none parses.
func ExtractNumber(s string) (string, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return "", false
	}
	m = strings.ReplaceAll(m, ",", "")
	m = strings.TrimPrefix(m, "+")
	m = strings.TrimSuffix(m, ".")
	if m == "" || m == "-" {
		return "", false
	}
	return m, true
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

func canonicalizeNull(s string) string {
	if _, ok := nullSynonyms[s]; ok {
		return Sentinel
	}
	return s
}
