package normalize

import "testing"

func TestString(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Hello World", "hello world"},
		{"strips feat clause", "Song (feat. Other Artist)", "song"},
		{"strips bracket clause", "Song [Radio Edit]", "song"},
		{"strips remaster suffix", "Song - Remastered 2011", "song"},
		{"strips remaster suffix case insensitive", "Song - REMASTER", "song"},
		{"keeps hyphen colon ampersand", "Rock & Roll: A-Side", "rock & roll: a-side"},
		{"strips other punctuation", "Don't Stop!!", "dont stop"},
		{"collapses whitespace", "too   many    spaces", "too many spaces"},
		{"trims", "  padded  ", "padded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := String(tc.in); got != tc.want {
				t.Errorf("String(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStringIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello World",
		"Song (feat. Other Artist) [Radio Edit] - Remastered 2011",
		"Rock & Roll: A-Side!!",
	}
	for _, in := range inputs {
		once := String(in)
		twice := String(once)
		if once != twice {
			t.Errorf("String not idempotent for %q: first=%q second=%q", in, once, twice)
		}
	}
}
