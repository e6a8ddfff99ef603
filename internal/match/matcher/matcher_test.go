package matcher

import (
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/domain/track"
)

func TestMatchEmptyCandidates(t *testing.T) {
	best, cls := Match(track.SourceTrack{Name: "Song"}, nil)
	if best != nil || cls != track.NotFound {
		t.Errorf("Match with no candidates = (%v, %v), want (nil, NOT_FOUND)", best, cls)
	}
}

func TestMatchHighSimilarityIsMatched(t *testing.T) {
	src := track.SourceTrack{Name: "Hello", Artists: []string{"Adele"}, DurationMS: 300000}
	candidates := []track.Candidate{
		{TargetID: "1", Title: "Hello", Artists: []string{"Adele"}, DurationSecs: 300},
		{TargetID: "2", Title: "Rolling in the Deep", Artists: []string{"Adele"}, DurationSecs: 280},
	}
	best, cls := Match(src, candidates)
	if best == nil || best.TargetID != "1" {
		t.Fatalf("expected candidate 1 to win, got %v", best)
	}
	if cls != track.Matched {
		t.Errorf("classification = %v, want MATCHED", cls)
	}
	if best.Score < 0.90 {
		t.Errorf("score = %v, want > 0.90", best.Score)
	}
}

func TestMatchLiveVariantIsNotFound(t *testing.T) {
	src := track.SourceTrack{Name: "Hello", Artists: []string{"Adele"}, DurationMS: 300000}
	candidates := []track.Candidate{
		{TargetID: "1", Title: "Hello Live", Artists: []string{"Adele"}, DurationSecs: 320},
	}
	best, cls := Match(src, candidates)
	if best != nil {
		t.Errorf("expected best to be discarded for NOT_FOUND, got %v", best)
	}
	if cls != track.NotFound {
		t.Errorf("classification = %v, want NOT_FOUND", cls)
	}
}

func TestMatchTiesKeepFirstSeen(t *testing.T) {
	src := track.SourceTrack{Name: "Song", Artists: []string{"Artist"}, DurationMS: 100000}
	candidates := []track.Candidate{
		{TargetID: "first", Title: "Song", Artists: []string{"Artist"}, DurationSecs: 100},
		{TargetID: "second", Title: "Song", Artists: []string{"Artist"}, DurationSecs: 100},
	}
	best, _ := Match(src, candidates)
	if best == nil || best.TargetID != "first" {
		t.Errorf("expected tie to keep first-seen candidate, got %v", best)
	}
}

func TestMatchClassificationAgreesWithBestNil(t *testing.T) {
	src := track.SourceTrack{Name: "Totally Unique Title Xyz", Artists: []string{"Nobody Known"}}
	candidates := []track.Candidate{
		{TargetID: "1", Title: "Completely Different", Artists: []string{"Someone Else"}},
	}
	best, cls := Match(src, candidates)
	if cls == track.NotFound && best != nil {
		t.Errorf("NOT_FOUND classification must discard best, got %v", best)
	}
}
