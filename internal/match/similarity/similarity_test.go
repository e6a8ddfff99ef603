package similarity

import (
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/domain/track"
)

func TestRatioIdentical(t *testing.T) {
	if r := Ratio("hello", "hello"); r != 1.0 {
		t.Errorf("Ratio(hello, hello) = %v, want 1.0", r)
	}
}

func TestRatioEmpty(t *testing.T) {
	if r := Ratio("", ""); r != 1.0 {
		t.Errorf("Ratio(\"\", \"\") = %v, want 1.0", r)
	}
	if r := Ratio("hello", ""); r != 0.0 {
		t.Errorf("Ratio(hello, \"\") = %v, want 0.0", r)
	}
}

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"hello world", "goodbye world"},
		{"abc", "xyz"},
		{"song title here", "song title there"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		if r < 0 || r > 1 {
			t.Errorf("Ratio(%q, %q) = %v, out of [0,1]", p[0], p[1], r)
		}
	}
}

func TestScoreISRCShortcut(t *testing.T) {
	src := track.SourceTrack{Name: "Song", Artists: []string{"A"}, DurationMS: 180000, ISRC: "US12345"}
	cand := track.Candidate{Title: "anything", Artists: []string{"B"}, DurationSecs: 120, ISRC: "US12345"}
	if s := Score(src, cand); s != 1.0 {
		t.Errorf("Score with matching ISRC = %v, want 1.0", s)
	}
}

func TestScoreHighTextSimilarity(t *testing.T) {
	src := track.SourceTrack{Name: "Hello", Artists: []string{"Adele"}, DurationMS: 300000}
	cand := track.Candidate{Title: "Hello", Artists: []string{"Adele"}, DurationSecs: 300}
	if s := Score(src, cand); s < 0.99 {
		t.Errorf("Score for near-identical track = %v, want >= 0.99", s)
	}
}

func TestScoreAmbiguousLiveVariant(t *testing.T) {
	src := track.SourceTrack{Name: "Hello", Artists: []string{"Adele"}, DurationMS: 300000}
	cand := track.Candidate{Title: "Hello Live", Artists: []string{"Adele"}, DurationSecs: 320}
	s := Score(src, cand)
	if s < 0.6 || s > 0.75 {
		t.Errorf("Score for live variant = %v, want roughly 0.6-0.75", s)
	}
}

func TestScoreMissingMetadataNeverPanics(t *testing.T) {
	src := track.SourceTrack{}
	cand := track.Candidate{}
	s := Score(src, cand)
	if s < 0 || s > 1 {
		t.Errorf("Score with empty metadata = %v, out of [0,1]", s)
	}
}

func TestScoreBounds(t *testing.T) {
	src := track.SourceTrack{Name: "Whatever Works", Artists: []string{"Nobody"}, DurationMS: 123456}
	cand := track.Candidate{Title: "Totally Different", Artists: []string{"Someone Else"}, DurationSecs: 999}
	s := Score(src, cand)
	if s < 0 || s > 1 {
		t.Errorf("Score = %v, out of [0,1]", s)
	}
}
