package tidal

import (
	"context"
	"errors"
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/shared"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if !errors.Is(err, shared.ErrAuthMissing) {
		t.Errorf("err = %v, want wrapping ErrAuthMissing", err)
	}
}

func TestToCandidateNormalizesDurationToSeconds(t *testing.T) {
	tt := tidalTrack{
		ID:           "abc",
		Title:        "Song",
		Artists:      []tidalArtist{{Name: "Artist"}},
		Album:        tidalAlbum{Title: "Album"},
		DurationSecs: 210,
		ISRC:         "US123",
	}
	c := toCandidate(tt)
	if c.DurationSecs != 210 {
		t.Errorf("DurationSecs = %d, want 210 (already seconds, no rescale)", c.DurationSecs)
	}
	if len(c.Artists) != 1 || c.Artists[0] != "Artist" {
		t.Errorf("Artists = %v, want [Artist]", c.Artists)
	}
}
