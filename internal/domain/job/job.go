// Package job defines the import job and item entities and the job status
// state machine. The job store owns these exclusively; everything else
// treats them as values passed by pointer for the duration of a single
// stage run.
package job

import (
	"fmt"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/domain/track"
)

// Provider identifies a music catalog.
type Provider string

const (
	Spotify   Provider = "spotify"
	YouTube   Provider = "ytm"
	Tidal     Provider = "tidal"
	Qobuz     Provider = "qobuz"
)

// Status is a job's position in the import state machine.
//
//	QUEUED -> RUNNING -> WAITING_REVIEW -> IMPORTING -> DONE
//	any non-terminal state -> FAILED
type Status string

const (
	Queued         Status = "QUEUED"
	Running        Status = "RUNNING"
	WaitingReview  Status = "WAITING_REVIEW"
	Importing      Status = "IMPORTING"
	Done           Status = "DONE"
	Failed         Status = "FAILED"
)

// Terminal reports whether s is a terminal state.
func (s Status) Terminal() bool {
	return s == Done || s == Failed
}

// transitions enumerates the legal status-to-status edges.
var transitions = map[Status]map[Status]bool{
	Queued:        {Running: true, Failed: true},
	Running:       {WaitingReview: true, Failed: true},
	WaitingReview: {Importing: true, Failed: true},
	Importing:     {Done: true, Failed: true},
}

// ErrIllegalTransition is returned when a requested status change does not
// follow the job state machine.
var ErrIllegalTransition = fmt.Errorf("illegal job state transition")

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}
	return transitions[s][next]
}

// Import is a single playlist migration run.
type Import struct {
	ID                  string
	OwnerID             string
	SourcePlaylistRef   string
	SourcePlaylistName  string
	TargetProvider      Provider
	Status              Status
	TargetPlaylistID    string
	ErrorMessage        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks the job's required fields.
func (j *Import) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job: id is required")
	}
	if j.OwnerID == "" {
		return fmt.Errorf("job: owner is required")
	}
	if j.SourcePlaylistRef == "" {
		return fmt.Errorf("job: source playlist reference is required")
	}
	if j.TargetProvider == "" {
		return fmt.Errorf("job: target provider is required")
	}
	return nil
}

// Transition moves the job to next, returning ErrIllegalTransition if the
// move is not allowed from the current state.
func (j *Import) Transition(next Status) error {
	if !j.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, j.Status, next)
	}
	j.Status = next
	j.UpdatedAt = time.Now()
	return nil
}

// Fail records an unrecoverable error and transitions the job to FAILED.
// Unlike Transition, Fail is always legal from a non-terminal state because
// FAILED is reachable from any of them.
func (j *Import) Fail(err error) {
	if j.Status.Terminal() {
		return
	}
	j.Status = Failed
	j.ErrorMessage = err.Error()
	j.UpdatedAt = time.Now()
}

// Item is one source track's resolution within a job.
type Item struct {
	ID               string
	JobID            string
	Source           track.SourceTrack
	Best             *track.Candidate // nil if no candidate cleared the NOT_FOUND threshold
	Classification   track.Classification
	SelectedTargetID string // set iff Classification == MATCHED at finalize time
}

// Confirm accepts the item's match, selecting override if provided, else
// the best candidate found during the match stage.
func (i *Item) Confirm(override *track.Candidate) {
	if override != nil {
		i.Best = override
		i.SelectedTargetID = override.TargetID
	} else if i.Best != nil {
		i.SelectedTargetID = i.Best.TargetID
	}
	i.Classification = track.Matched
}

// Reject marks the item as not found and clears any selected target.
func (i *Item) Reject() {
	i.Classification = track.NotFound
	i.SelectedTargetID = ""
}
