// Package store defines the durable persistence contracts for jobs, items,
// users, and provider connections. The job store is the single writer of
// jobs and items; every mutation is expected to run inside a transaction
// that includes the precondition state check the orchestrator requires.
package store

import (
	"context"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/user"
)

// Jobs persists ImportJob records.
type Jobs interface {
	Create(ctx context.Context, j *job.Import) error
	Get(ctx context.Context, id string) (*job.Import, error)
	// UpdateStatus performs a guarded transition: it only applies the
	// update if the job's current persisted status equals from. This is
	// the precondition check the orchestrator's queue contract depends on.
	UpdateStatus(ctx context.Context, id string, from, to job.Status, mutate func(*job.Import)) error
	List(ctx context.Context, ownerID string, status job.Status) ([]*job.Import, error)
}

// Items persists ImportItem records. Items are created once, during the
// match stage; afterward only Classification and SelectedTargetID may be
// mutated.
type Items interface {
	CreateAll(ctx context.Context, items []*job.Item) error
	ListByJob(ctx context.Context, jobID string) ([]*job.Item, error)
	ListUncertainOrNotFound(ctx context.Context, jobID string) ([]*job.Item, error)
	ListMatched(ctx context.Context, jobID string) ([]*job.Item, error)
	UpdateDecision(ctx context.Context, item *job.Item) error
}

// Users persists User records.
type Users interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id string) (*user.User, error)
}

// Connections persists per-(user, provider) credentials.
type Connections interface {
	Upsert(ctx context.Context, c *user.Connection) error
	Get(ctx context.Context, userID string, provider job.Provider) (*user.Connection, error)
}
