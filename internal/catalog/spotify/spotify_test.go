package spotify

import "testing"

func TestExtractPlaylistID(t *testing.T) {
	cases := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"bare id", "37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"canonical url", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"url with query", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"url with trailing segment", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M/extra", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"empty", "", "", true},
		{"no id after marker", "https://open.spotify.com/playlist/", "", true},
		{"garbage with slash", "not/a/playlist", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tc.ref)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tc.ref, got, tc.want)
			}
		})
	}
}
