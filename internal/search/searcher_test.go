package search

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/ratelimit"
)

type fakeTarget struct {
	mu      sync.Mutex
	byQuery map[string][]track.Candidate
	errs    map[string]error
}

func (f *fakeTarget) Search(ctx context.Context, query string, limit int) ([]track.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.byQuery[query], nil
}

func (f *fakeTarget) CreatePlaylist(ctx context.Context, title, description string, privacy catalog.Privacy) (string, error) {
	return "", nil
}

func (f *fakeTarget) ExistingItems(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	return nil, nil
}

func (f *fakeTarget) AddItems(ctx context.Context, playlistID string, ids []string) (catalog.WriteResult, error) {
	return catalog.WriteResult{}, nil
}

func silentLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestResolvePreservesInputOrder(t *testing.T) {
	tracks := []track.SourceTrack{
		{Name: "Song A", Artists: []string{"Artist A"}},
		{Name: "Song B", Artists: []string{"Artist B"}},
		{Name: "Song C", Artists: []string{"Artist C"}},
	}
	target := &fakeTarget{byQuery: map[string][]track.Candidate{
		"Song A Artist A": {{TargetID: "a1", Title: "Song A", Artists: []string{"Artist A"}}},
		"Song B Artist B": {{TargetID: "b1", Title: "Song B", Artists: []string{"Artist B"}}},
		"Song C Artist C": {{TargetID: "c1", Title: "Song C", Artists: []string{"Artist C"}}},
	}}
	limiter := ratelimit.New(1000)

	resolved, stats, err := Resolve(context.Background(), target, limiter, silentLogger(), tracks, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a1", "b1", "c1"}
	for i, w := range want {
		if resolved[i] == nil || resolved[i].TargetID != w {
			t.Errorf("resolved[%d] = %v, want TargetID %s", i, resolved[i], w)
		}
	}
	if stats.Found != 3 {
		t.Errorf("Found = %d, want 3", stats.Found)
	}
}

func TestResolveMissingSearchTreatedAsNone(t *testing.T) {
	tracks := []track.SourceTrack{
		{Name: "Found", Artists: []string{"A"}},
		{Name: "NotFound", Artists: []string{"B"}},
	}
	target := &fakeTarget{
		byQuery: map[string][]track.Candidate{
			"Found A": {{TargetID: "f1", Title: "Found", Artists: []string{"A"}}},
		},
		errs: map[string]error{
			"NotFound B": errors.New("network error"),
		},
	}
	limiter := ratelimit.New(1000)

	resolved, stats, err := Resolve(context.Background(), target, limiter, silentLogger(), tracks, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved[0] == nil || resolved[0].TargetID != "f1" {
		t.Errorf("resolved[0] = %v, want f1", resolved[0])
	}
	if resolved[1] != nil {
		t.Errorf("resolved[1] = %v, want nil", resolved[1])
	}
	if len(stats.Missed) != 1 {
		t.Errorf("Missed = %v, want 1 entry", stats.Missed)
	}
}

func TestResolveAllFailuresRaisesMatchExhausted(t *testing.T) {
	tracks := []track.SourceTrack{
		{Name: "A", Artists: []string{"X"}},
		{Name: "B", Artists: []string{"Y"}},
	}
	target := &fakeTarget{byQuery: map[string][]track.Candidate{}}
	limiter := ratelimit.New(1000)

	_, _, err := Resolve(context.Background(), target, limiter, silentLogger(), tracks, 2)
	var exhausted *MatchExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want *MatchExhaustedError", err)
	}
	if exhausted.Total != 2 {
		t.Errorf("Total = %d, want 2", exhausted.Total)
	}
}

func TestResolveEmptyInputNeverExhausted(t *testing.T) {
	target := &fakeTarget{byQuery: map[string][]track.Candidate{}}
	limiter := ratelimit.New(1000)

	resolved, stats, err := Resolve(context.Background(), target, limiter, silentLogger(), nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 0 || stats.Found != 0 {
		t.Errorf("expected empty result for empty input, got %v %v", resolved, stats)
	}
}

func TestSearchOneFallsBackToFirstCandidate(t *testing.T) {
	target := &fakeTarget{byQuery: map[string][]track.Candidate{
		"Song Artist": {
			{TargetID: "only", Title: "Completely Unrelated", Artists: []string{"Nobody"}},
		},
	}}
	cand, err := searchOne(context.Background(), target, track.SourceTrack{Name: "Song", Artists: []string{"Artist"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cand == nil || cand.TargetID != "only" {
		t.Errorf("expected fallback to only candidate, got %v", cand)
	}
}
