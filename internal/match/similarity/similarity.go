// Package similarity scores how alike a source track and a target-catalog
// candidate are, in [0,1].
package similarity

import (
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/match/normalize"
)

const (
	titleWeight    = 0.50
	artistWeight   = 0.35
	durationWeight = 0.15

	durationExactMS    = 5000
	durationCloseMS    = 15000
)

// Ratio computes the Ratcliff/Obershelp similarity of a and b: 2*M/(|a|+|b|)
// where M is the total length of matching blocks found by recursively
// taking the longest common substring and descending into the unmatched
// left and right remainders.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1.0
	}
	if len(ar) == 0 || len(br) == 0 {
		return 0.0
	}
	m := matchingBlockLength(ar, br)
	return 2 * float64(m) / float64(len(ar)+len(br))
}

func matchingBlockLength(a, b []rune) int {
	aStart, bStart, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}
	total := length
	total += matchingBlockLength(a[:aStart], b[:bStart])
	total += matchingBlockLength(a[aStart+length:], b[bStart+length:])
	return total
}

// longestCommonSubstring returns the start indices in a and b and the
// length of their longest common substring. Ties prefer the earliest match
// in a, then in b, matching the stable behavior expected of a
// deterministic matcher.
func longestCommonSubstring(a, b []rune) (aStart, bStart, length int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0
	bestA, bestB := 0, 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
					bestA = i - best
					bestB = j - best
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return bestA, bestB, best
}

// Score computes the 0..1 similarity between a source track and a
// candidate. An exact, non-empty ISRC match short-circuits to 1.0.
// Otherwise it blends normalized-title ratio (weight 0.50), the best
// cross-product normalized-artist ratio (weight 0.35), and a bucketed
// duration closeness score (weight 0.15). The candidate's duration is
// expected in seconds; it is scaled to milliseconds before comparison.
func Score(src track.SourceTrack, cand track.Candidate) float64 {
	if src.ISRC != "" && cand.ISRC != "" && src.ISRC == cand.ISRC {
		return 1.0
	}

	title := titleScore(src.Name, cand.Title)
	artist := artistScore(src.Artists, cand.Artists)
	duration := durationScore(src.DurationMS, cand.DurationSecs*1000)

	return titleWeight*title + artistWeight*artist + durationWeight*duration
}

func titleScore(srcTitle, candTitle string) float64 {
	return Ratio(normalize.String(srcTitle), normalize.String(candTitle))
}

func artistScore(srcArtists, candArtists []string) float64 {
	if len(srcArtists) == 0 || len(candArtists) == 0 {
		return 0.0
	}
	best := 0.0
	for _, s := range srcArtists {
		ns := normalize.String(s)
		for _, c := range candArtists {
			nc := normalize.String(c)
			if r := Ratio(ns, nc); r > best {
				best = r
			}
		}
	}
	return best
}

func durationScore(srcMS, candMS int64) float64 {
	if srcMS <= 0 || candMS <= 0 {
		return 1.0
	}
	diff := srcMS - candMS
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= durationExactMS:
		return 1.0
	case diff <= durationCloseMS:
		return 0.5
	default:
		return 0.0
	}
}
