// Package matcher classifies a source track against a list of candidates
// using the similarity scorer.
package matcher

import (
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/match/similarity"
)

const (
	matchedThreshold   = 0.90
	uncertainThreshold = 0.75
)

// Match scores every candidate against src and returns the best-scoring one
// along with its classification. Ties keep whichever candidate was seen
// first (adapter-returned order). An empty candidate list yields
// (nil, NOT_FOUND). A classification of NOT_FOUND always discards best,
// even if a candidate scored above zero.
func Match(src track.SourceTrack, candidates []track.Candidate) (*track.Candidate, track.Classification) {
	if len(candidates) == 0 {
		return nil, track.NotFound
	}

	var best *track.Candidate
	bestScore := -1.0
	for i := range candidates {
		candidates[i].Score = similarity.Score(src, candidates[i])
		if candidates[i].Score > bestScore {
			bestScore = candidates[i].Score
			best = &candidates[i]
		}
	}

	switch {
	case bestScore > matchedThreshold:
		return best, track.Matched
	case bestScore >= uncertainThreshold:
		return best, track.Uncertain
	default:
		return nil, track.NotFound
	}
}
