package answer

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"json array", `["Africa", "Asia", "Europe"]`, []string{"Africa", "Asia", "Europe"}},
		{"json array numbers", `[1, 2.5, 3]`, []string{"1", "2.5", "3"}},
		{"fenced json array", "```json\n[\"solar\", \"wind\"]\n```", []string{"solar", "wind"}},
		{"bracketed plain", `[Africa, Asia]`, []string{"Africa", "Asia"}},
		{"comma separated", "Africa, Asia, Europe", []string{"Africa", "Asia", "Europe"}},
		{"semicolons", "Africa; Asia; Europe", []string{"Africa", "Asia", "Europe"}},
		{"quoted elements", `'Africa', "Asia"`, []string{"Africa", "Asia"}},
		{"newlines", "Africa\nAsia\nEurope", []string{"Africa", "Asia", "Europe"}},
		{"bullets", "- Africa\n- Asia\n* Europe", []string{"Africa", "Asia", "Europe"}},
		{"numbered", "1. Africa\n2) Asia\n10. Europe", []string{"Africa", "Asia", "Europe"}},
		{"dot bullet", "• Africa\n• Asia", []string{"Africa", "Asia"}},
		{"blank lines dropped", "Africa\n\nAsia\n", []string{"Africa", "Asia"}},
		{"trailing comma", "Africa, Asia,", []string{"Africa", "Asia"}},
		{"single element", "Africa", []string{"Africa"}},
		{"element with inner punctuation", "GRI 305-1, GRI 305-2", []string{"GRI 305-1", "GRI 305-2"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseList(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseList(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseListMalformedJSONFallsBack(t *testing.T) {
	t.Parallel()

	// Unparseable as JSON, still bracketed: brackets stripped, commas split.
	got := ParseList(`["Africa", "Asia"`)
	want := []string{"Africa", "Asia"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestHasOrderingCue(t *testing.T) {
	t.Parallel()

	positives := []string{
		"List the first three emitters in order",
		"Rank the regions by emissions",
		"What is the chronological sequence of targets?",
		"Name the top suppliers",
	}
	for _, q := range positives {
		if !HasOrderingCue(q) {
			t.Fatalf("HasOrderingCue(%q) = false", q)
		}
	}

	negatives := []string{
		"Which continents are mentioned in the report?",
		"List the material topics disclosed",
	}
	for _, q := range negatives {
		if HasOrderingCue(q) {
			t.Fatalf("HasOrderingCue(%q) = true", q)
		}
	}
}
