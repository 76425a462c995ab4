package evaluate

import (
	"strings"
	"testing"
)

// Expected values were produced with difflib.SequenceMatcher(None, a, b).ratio().
func TestRatioMatchesSequenceMatcher(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "", b: "", want: 1},
		{a: "abc", b: "", want: 0},
		{a: "tide", b: "diet", want: 0.25},
		{a: "diet", b: "tide", want: 0.5},
		{a: "abxcd", b: "abcd", want: 8.0 / 9.0},
		{a: "paris", b: "pari", want: 8.0 / 9.0},
		{a: "ha noi", b: "hà nội", want: 8.0 / 12.0},
		{a: "hà nội", b: "thành phố hà nội", want: 0.5454545454545454},
		{a: "chủ tịch hồ chí minh", b: "hồ chí minh", want: 0.7096774193548387},
		{a: "private thread", b: "private volatile thread", want: 0.7567567567567568},
		{a: "abc", b: "xyz", want: 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); !almostEqual(got, tt.want) {
			t.Fatalf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatioSymmetricCases(t *testing.T) {
	pairs := [][2]string{{"ha noi", "hà nội"}, {"paris", "pari"}, {"abc", "xyz"}}
	for _, p := range pairs {
		if a, b := Ratio(p[0], p[1]), Ratio(p[1], p[0]); !almostEqual(a, b) {
			t.Fatalf("Ratio not symmetric for %q/%q: %v vs %v", p[0], p[1], a, b)
		}
	}
}

func TestRatioAutoJunk(t *testing.T) {
	// Both runes of b are popular, so nothing can seed a match.
	a := strings.Repeat("a", 10) + strings.Repeat("b", 300)
	b := strings.Repeat("b", 250) + strings.Repeat("a", 5)
	if got := Ratio(a, b); got != 0 {
		t.Fatalf("expected 0 with popular elements, got %v", got)
	}

	// The empty best match is still extended forward by one rune.
	a = strings.Repeat("xy", 150)
	b = strings.Repeat("x", 210)
	if got, want := Ratio(a, b), 2.0/510.0; !almostEqual(got, want) {
		t.Fatalf("Ratio = %v, want %v", got, want)
	}
}

func TestMatchingBlocks(t *testing.T) {
	m := newMatcher([]rune("abxcd"), []rune("abcd"))
	got := m.matchingBlocks()
	want := []block{{a: 0, b: 0, size: 2}, {a: 3, b: 2, size: 2}}
	if len(got) != len(want) {
		t.Fatalf("blocks = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("block %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
