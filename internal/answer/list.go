package answer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	bulletPrefix   = regexp.MustCompile(`^\s*(?:[-*•·]|\d{1,3}[.)])\s+`)
	orderingCues   = regexp.MustCompile(`(?i)\b(first|last|top|rank|ranking|order|ordered|sequence|chronological)\b`)
	fencedBlock    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	listSeparators = regexp.MustCompile(`[,;]`)
)

// ParseList splits a prediction into ordered list elements, accepting the
// informal serializations models actually emit. Grammar, first hit wins:
//
//  1. a JSON array, optionally inside a fenced code block;
//  2. a bracketed form "[a, b]" with the brackets stripped;
//  3. newline-separated text, one element per non-empty line, with
//     bullet and "1."-style prefixes stripped;
//  4. comma- or semicolon-separated plain text.
//
// Elements are trimmed of surrounding quotes and whitespace; empties are
// dropped. Elements are returned raw, not normalized.
func ParseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if out, ok := parseJSONArray(s); ok {
		return out
	}

	// Models frequently emit unbalanced brackets; strip each side on its own.
	s = strings.TrimSpace(strings.TrimPrefix(s, "["))
	s = strings.TrimSpace(strings.TrimSuffix(s, "]"))

	var parts []string
	if strings.ContainsAny(s, "\n") {
		for _, line := range strings.Split(s, "\n") {
			line = bulletPrefix.ReplaceAllString(line, "")
			parts = append(parts, line)
		}
	} else {
		parts = listSeparators.Split(s, -1)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = trimElement(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// HasOrderingCue reports whether a question asks for elements in a
// specific order, in which case positional equality replaces bipartite
// matching.
func HasOrderingCue(question string) bool {
	return orderingCues.MatchString(question)
}

func parseJSONArray(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var raw []any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		e := trimElement(fmt.Sprint(v))
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out, true
}

func trimElement(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
