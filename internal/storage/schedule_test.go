package storage

import "testing"

// TestLikePattern verifies the exercise filter becomes a substring match:
// the term is wrapped in wildcards so "bench" can hit "Bench Press", LIKE
// metacharacters in the input are escaped, and an empty term stays empty
// (the queries treat it as no filter).
func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"bench", "%bench%"},
		{"Bench Press", "%Bench Press%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`a\b`, `%a\\b%`},
	}
	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
