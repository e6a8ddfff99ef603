package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// JobRepository implements store.Jobs against SQLite.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a JobRepository with the given database connection.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new import job with a generated id and sequence.
func (r *JobRepository) Create(ctx context.Context, j *job.Import) error {
	sequence, err := NextSequence(ctx, r.db, "import_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	j.ID = shared.GenerateID()
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now
	if j.Status == "" {
		j.Status = job.Queued
	}

	if err := j.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO import_jobs (
			id, sequence, owner_id, source_playlist_ref, source_playlist_name,
			target_provider, status, target_playlist_id, error_message,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		j.ID, sequence, j.OwnerID, j.SourcePlaylistRef, nullIfEmpty(j.SourcePlaylistName),
		string(j.TargetProvider), string(j.Status), nullIfEmpty(j.TargetPlaylistID), nullIfEmpty(j.ErrorMessage),
		j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import job: %w", err)
	}
	return nil
}

// Get retrieves a job by id, excluding soft-deleted jobs.
func (r *JobRepository) Get(ctx context.Context, id string) (*job.Import, error) {
	query := `
		SELECT id, owner_id, source_playlist_ref, source_playlist_name, target_provider,
			status, target_playlist_id, error_message, created_at, updated_at
		FROM import_jobs
		WHERE id = ? AND deleted_at IS NULL
	`
	return scanJob(r.db.QueryRowContext(ctx, query, id))
}

// UpdateStatus applies mutate and transitions the job from `from` to `to`
// atomically, failing if the persisted status has drifted from `from`.
// This is the precondition guard the orchestrator's at-least-once queue
// delivery depends on: a worker that wakes for a job no longer in the
// expected state does nothing.
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, from, to job.Status, mutate func(*job.Import)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, owner_id, source_playlist_ref, source_playlist_name, target_provider,
			status, target_playlist_id, error_message, created_at, updated_at
		FROM import_jobs WHERE id = ? AND deleted_at IS NULL
	`, id)

	current, err := scanJob(row)
	if err != nil {
		return err
	}
	if current.Status != from {
		return fmt.Errorf("%w: job %s is %s, expected %s", shared.ErrInternalInvariant, id, current.Status, from)
	}

	if mutate != nil {
		mutate(current)
	}
	current.Status = to
	current.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, source_playlist_name = ?, target_playlist_id = ?, error_message = ?, updated_at = ?
		WHERE id = ?
	`, string(current.Status), nullIfEmpty(current.SourcePlaylistName), nullIfEmpty(current.TargetPlaylistID),
		nullIfEmpty(current.ErrorMessage), current.UpdatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	return tx.Commit()
}

// List returns jobs for ownerID, optionally filtered by status.
func (r *JobRepository) List(ctx context.Context, ownerID string, status job.Status) ([]*job.Import, error) {
	query := `
		SELECT id, owner_id, source_playlist_ref, source_playlist_name, target_provider,
			status, target_playlist_id, error_message, created_at, updated_at
		FROM import_jobs
		WHERE deleted_at IS NULL AND owner_id = ?
	`
	args := []any{ownerID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*job.Import
	for rows.Next() {
		j, err := scanJobRows(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanJob(row scannable) (*job.Import, error) {
	var (
		id, ownerID, sourceRef, targetProvider, status string
		sourceName, targetPlaylistID, errorMessage      sql.NullString
		createdAt, updatedAt                            time.Time
	)
	err := row.Scan(&id, &ownerID, &sourceRef, &sourceName, &targetProvider,
		&status, &targetPlaylistID, &errorMessage, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: job not found", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import job: %w", err)
	}
	return &job.Import{
		ID:                 id,
		OwnerID:            ownerID,
		SourcePlaylistRef:  sourceRef,
		SourcePlaylistName: sourceName.String,
		TargetProvider:     job.Provider(targetProvider),
		Status:             job.Status(status),
		TargetPlaylistID:   targetPlaylistID.String,
		ErrorMessage:       errorMessage.String,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func scanJobRows(rows *sql.Rows) (*job.Import, error) {
	return scanJob(rows)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
