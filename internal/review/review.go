// Package review exposes the thin operator-facing surface for inspecting
// and deciding on ambiguous matches: listing items awaiting a decision,
// applying confirm/reject decisions, and a plain-text summary for the CLI.
// It never mutates a job's status — that remains the orchestrator's job.
package review

import (
	"context"
	"fmt"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/shared"
	"github.com/jrmoreno/catalogbridge/internal/store"
)

// Action is the operator's verdict on one item.
type Action string

const (
	Confirm Action = "confirm"
	Reject  Action = "reject"
)

// Decision is one line of an apply_decisions request.
type Decision struct {
	ItemID    string
	Action    Action
	TargetID  string           // optional override, confirm only
	Candidate *track.Candidate // optional override, confirm only
}

// API is the thin review surface backed by the job and item stores.
type API struct {
	Jobs  store.Jobs
	Items store.Items
}

// New constructs a review API over the given stores.
func New(jobs store.Jobs, items store.Items) *API {
	return &API{Jobs: jobs, Items: items}
}

// ListUncertain returns every item in jobID classified UNCERTAIN or
// NOT_FOUND, for ownerID to decide on. A missing or foreign job is
// reported as not-found, never as a server error.
func (a *API) ListUncertain(ctx context.Context, ownerID, jobID string) ([]*job.Item, error) {
	if err := a.requireOwner(ctx, ownerID, jobID); err != nil {
		return nil, err
	}
	return a.Items.ListUncertainOrNotFound(ctx, jobID)
}

// ApplyDecisions applies each decision in order. On confirm, the item is
// classified MATCHED and its selected target id is taken from the
// decision's override (Candidate, then TargetID) or else from the item's
// best candidate. On reject, the item is classified NOT_FOUND and its
// selected target id is cleared. Only the job owner may apply decisions.
func (a *API) ApplyDecisions(ctx context.Context, ownerID, jobID string, decisions []Decision) error {
	if err := a.requireOwner(ctx, ownerID, jobID); err != nil {
		return err
	}

	items, err := a.Items.ListByJob(ctx, jobID)
	if err != nil {
		return err
	}
	byID := make(map[string]*job.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	for _, d := range decisions {
		item, ok := byID[d.ItemID]
		if !ok {
			continue // foreign item id: silently skipped, matching the thin-surface contract
		}
		switch d.Action {
		case Confirm:
			override := d.Candidate
			if override == nil && d.TargetID != "" {
				override = &track.Candidate{TargetID: d.TargetID}
			}
			item.Confirm(override)
		case Reject:
			item.Reject()
		default:
			return fmt.Errorf("%w: unknown decision action %q", shared.ErrBadRequest, d.Action)
		}
		if err := a.Items.UpdateDecision(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Summary aggregates a job's items into per-classification counts and a
// score-bucket histogram, for the CLI's job show output.
type Summary struct {
	Total        int
	Matched      int
	Uncertain    int
	NotFound     int
	Skipped      int
	ScoreBuckets map[string]int
}

var scoreBucketOrder = []string{"0-49%", "50-74%", "75-89%", "90-100%"}

func newScoreBuckets() map[string]int {
	buckets := make(map[string]int, len(scoreBucketOrder))
	for _, b := range scoreBucketOrder {
		buckets[b] = 0
	}
	return buckets
}

// Summary computes aggregate statistics for jobID.
func (a *API) Summary(ctx context.Context, ownerID, jobID string) (Summary, error) {
	if err := a.requireOwner(ctx, ownerID, jobID); err != nil {
		return Summary{}, err
	}

	items, err := a.Items.ListByJob(ctx, jobID)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Total: len(items), ScoreBuckets: newScoreBuckets()}
	for _, it := range items {
		switch it.Classification {
		case track.Matched:
			s.Matched++
		case track.Uncertain:
			s.Uncertain++
		case track.NotFound:
			s.NotFound++
		case track.Skipped:
			s.Skipped++
		}
		if it.Best == nil {
			continue
		}
		bucket := scoreBucket(it.Best.Score)
		s.ScoreBuckets[bucket]++
	}
	return s, nil
}

func scoreBucket(score float64) string {
	percent := int(score*100 + 0.5)
	switch {
	case percent < 50:
		return "0-49%"
	case percent < 75:
		return "50-74%"
	case percent < 90:
		return "75-89%"
	default:
		return "90-100%"
	}
}

func (a *API) requireOwner(ctx context.Context, ownerID, jobID string) error {
	j, err := a.Jobs.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("%w: job not found", shared.ErrInvalidInput)
	}
	if j.OwnerID != ownerID {
		return fmt.Errorf("%w: job not found", shared.ErrInvalidInput)
	}
	return nil
}
