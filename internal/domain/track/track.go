// Package track defines the value types exchanged between catalog adapters,
// the matcher, and the job store: the track as seen on the source catalog
// and the candidate a target catalog offers in its place.
package track

import "strings"

// SourceTrack is a track as enumerated from the source playlist. It is
// immutable for the lifetime of a job.
type SourceTrack struct {
	Name       string   // track title
	Artists    []string // ordered artist names, primary artist first
	Album      string
	DurationMS int64  // duration in milliseconds
	ISRC       string // international standard recording code, if known
	SourceID   string // source-catalog track id
}

// Candidate is a search result returned by a target catalog adapter,
// annotated with its similarity score once scored by the matcher.
type Candidate struct {
	TargetID     string
	Title        string
	Artists      []string // ordered artist names
	Album        string
	DurationSecs int64 // duration in seconds — adapters normalize to seconds at the boundary
	ISRC         string
	Score        float64 // set by the matcher; zero until scored
}

// Classification is the verdict the matcher assigns to a source track.
type Classification string

const (
	Matched   Classification = "MATCHED"
	Uncertain Classification = "UNCERTAIN"
	NotFound  Classification = "NOT_FOUND"
	// Skipped is reserved for UI use; the core never produces it.
	Skipped Classification = "SKIPPED"
)

// Label returns a human-readable identifier for a track, used in logs and
// in the missed/duplicates sections of a finalize report.
func (t SourceTrack) Label() string {
	artist := "Unknown Artist"
	if len(t.Artists) > 0 {
		artist = t.Artists[0]
	}
	name := t.Name
	if name == "" {
		name = "Unknown Title"
	}
	if t.Album != "" {
		return artist + " — " + t.Album + " — " + name
	}
	return artist + " — " + name
}

// PrimaryArtist returns the first artist or the empty string.
func (t SourceTrack) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// SearchQuery builds the free-text query used by target adapter search
// calls: "<title> <first-artist>", trimmed.
func (t SourceTrack) SearchQuery() string {
	q := t.Name
	if a := t.PrimaryArtist(); a != "" {
		q = q + " " + a
	}
	return strings.TrimSpace(q)
}
