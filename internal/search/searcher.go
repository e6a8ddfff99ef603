// Package search fans out per-track target-catalog searches across a
// bounded worker pool, preserving input order in its output.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/match/normalize"
	"github.com/jrmoreno/catalogbridge/internal/ratelimit"
)

// DefaultWorkers and the candidate-fetch/filter sizes match the searcher's
// default concurrency and heuristic window.
const (
	DefaultWorkers = 8
	requestTopK    = 7
	filterTopK     = 5
)

// MatchExhaustedError is raised when every track in a non-empty input
// failed to resolve to a candidate — a strong signal the credentials or
// provider wiring is broken rather than that the catalog lacks the tracks.
type MatchExhaustedError struct {
	Total int
}

func (e *MatchExhaustedError) Error() string {
	return fmt.Sprintf("no track could be found on the target catalog (%d attempted); verify credentials", e.Total)
}

// Stats aggregates the outcome of a Resolve run.
type Stats struct {
	Found  int
	Missed []string // human-readable label per unresolved track
}

// Resolve searches target for every track in tracks, returning a
// resolved[N] slice aligned by index with the input (resolved[i] always
// corresponds to tracks[i]) plus aggregate found/missed statistics.
//
// Up to workers searches run concurrently; every call acquires a limiter
// token first. A search error for one track is logged and treated as an
// unresolved slot — it never fails the whole run. If the input is
// non-empty and nothing resolves, Resolve returns *MatchExhaustedError.
func Resolve(ctx context.Context, target catalog.Target, limiter *ratelimit.Limiter, logger *log.Logger, tracks []track.SourceTrack, workers int) ([]*track.Candidate, Stats, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	resolved := make([]*track.Candidate, len(tracks))
	labels := make([]string, len(tracks))
	for i, t := range tracks {
		labels[i] = t.Label()
	}

	type job struct {
		index int
		track track.SourceTrack
	}

	jobs := make(chan job, len(tracks))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := limiter.Acquire(ctx); err != nil {
					logger.Warn("rate limiter acquire canceled", "index", j.index, "err", err)
					continue
				}
				cand, err := searchOne(ctx, target, j.track)
				if err != nil {
					logger.Warn("search failed", "track", labels[j.index], "err", err)
					continue
				}
				resolved[j.index] = cand
			}
		}()
	}

	for i, t := range tracks {
		jobs <- job{index: i, track: t}
	}
	close(jobs)
	wg.Wait()

	stats := Stats{}
	for i, cand := range resolved {
		if cand != nil {
			stats.Found++
		} else {
			stats.Missed = append(stats.Missed, labels[i])
		}
	}

	if len(tracks) > 0 && stats.Found == 0 {
		return resolved, stats, &MatchExhaustedError{Total: len(tracks)}
	}
	return resolved, stats, nil
}

// searchOne issues a search for t and applies the candidate-selection
// heuristic: request the top requestTopK results, consider the first
// filterTopK of them, and retain the first whose normalized title is
// contained in the source title and whose artist string is a containment
// sub/superset of the first normalized source artist. Falls back to the
// first candidate if none passes, or nil if the search returned nothing.
func searchOne(ctx context.Context, target catalog.Target, t track.SourceTrack) (*track.Candidate, error) {
	candidates, err := target.Search(ctx, t.SearchQuery(), requestTopK)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > filterTopK {
		candidates = candidates[:filterTopK]
	}

	qTitle := normalize.String(t.Name)
	qArtist := normalize.String(t.PrimaryArtist())

	for i := range candidates {
		title := normalize.String(candidates[i].Title)
		artists := strings.ToLower(strings.Join(candidates[i].Artists, " "))
		if strings.Contains(title, qTitle) && (strings.Contains(artists, qArtist) || strings.Contains(qArtist, artists)) {
			return &candidates[i], nil
		}
	}
	return &candidates[0], nil
}
