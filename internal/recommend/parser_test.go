package recommend

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseNames(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		max  int
		want []string
	}{
		{
			name: "plain list",
			raw:  "Verify G+, OPQ Personality, Coding Simulation",
			max:  5,
			want: []string{"Verify G+", "OPQ Personality", "Coding Simulation"},
		},
		{
			name: "surrounding whitespace",
			raw:  "  Verify G+ ,\n OPQ Personality\t",
			max:  5,
			want: []string{"Verify G+", "OPQ Personality"},
		},
		{
			name: "empty tokens dropped",
			raw:  ",Verify G+,, ,OPQ Personality,",
			max:  5,
			want: []string{"Verify G+", "OPQ Personality"},
		},
		{
			name: "truncated to max",
			raw:  "A, B, C, D",
			max:  2,
			want: []string{"A", "B"},
		},
		{
			name: "empty input",
			raw:  "",
			max:  5,
			want: []string{},
		},
		{
			name: "whitespace only",
			raw:  " \n\t ",
			max:  5,
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseNames(tc.raw, tc.max)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseNames(%q, %d) = %v, want %v", tc.raw, tc.max, got, tc.want)
			}
		})
	}
}

func TestParseNamesPreservesOrder(t *testing.T) {
	got := parseNames("Zulu, Alpha, Mike", 5)
	want := []string{"Zulu", "Alpha", "Mike"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order not preserved: got %v, want %v", got, want)
	}
}

func TestParseNamesIdempotent(t *testing.T) {
	raw := "Verify G+, OPQ Personality, Coding Simulation"

	first := parseNames(raw, 3)
	second := parseNames(strings.Join(first, ","), 3)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reparsing parser output changed the result: %v vs %v", first, second)
	}
}
