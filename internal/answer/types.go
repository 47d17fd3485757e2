package answer

import (
	"fmt"
	"strings"
)

// Format identifies the declared answer type of a benchmark question and
// selects the comparison algorithm applied to it.
type Format int

const (
	FormatInteger Format = iota
	FormatFloat
	FormatString
	FormatList
	FormatUnanswerable
)

// Formats lists every known format in declaration order.
func Formats() []Format {
	return []Format{FormatInteger, FormatFloat, FormatString, FormatList, FormatUnanswerable}
}

// String returns the canonical dataset label for the format.
func (f Format) String() string {
	switch f {
	case FormatInteger:
		return "Int"
	case FormatFloat:
		return "Float"
	case FormatString:
		return "Str"
	case FormatList:
		return "List"
	case FormatUnanswerable:
		return "None"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a dataset answer_format label to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer":
		return FormatInteger, nil
	case "float", "number":
		return FormatFloat, nil
	case "str", "string", "text":
		return FormatString, nil
	case "list", "array":
		return FormatList, nil
	case "none", "null", "unanswerable":
		return FormatUnanswerable, nil
	default:
		return 0, fmt.Errorf("answer: unknown format %q", s)
	}
}
