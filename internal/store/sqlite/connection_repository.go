package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/user"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// ConnectionRepository implements store.Connections against SQLite.
type ConnectionRepository struct {
	db *sql.DB
}

// NewConnectionRepository creates a ConnectionRepository with the given database connection.
func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Upsert inserts a connection or, if one already exists for (UserID,
// Provider), overwrites its credential in place. Re-authenticating a
// provider replaces the stored credential rather than accumulating rows.
func (r *ConnectionRepository) Upsert(ctx context.Context, c *user.Connection) error {
	now := time.Now()
	c.UpdatedAt = now

	existing, err := r.Get(ctx, c.UserID, c.Provider)
	if err != nil && !errors.Is(err, shared.ErrInvalidInput) {
		return err
	}

	if existing != nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		_, err := r.db.ExecContext(ctx, `
			UPDATE connections SET credential = ?, updated_at = ? WHERE id = ?
		`, c.Credential, c.UpdatedAt, c.ID)
		if err != nil {
			return fmt.Errorf("failed to update connection: %w", err)
		}
		return nil
	}

	sequence, err := NextSequence(ctx, r.db, "connections")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	c.ID = shared.GenerateID()
	c.CreatedAt = now
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO connections (id, sequence, user_id, provider, credential, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, sequence, c.UserID, string(c.Provider), c.Credential, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert connection: %w", err)
	}
	return nil
}

// Get retrieves the connection for (userID, provider), if any.
func (r *ConnectionRepository) Get(ctx context.Context, userID string, provider job.Provider) (*user.Connection, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, provider, credential, created_at, updated_at
		FROM connections WHERE user_id = ? AND provider = ? AND deleted_at IS NULL
	`, userID, string(provider))

	var c user.Connection
	var providerStr string
	err := row.Scan(&c.ID, &c.UserID, &providerStr, &c.Credential, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: connection not found", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}
	c.Provider = job.Provider(providerStr)
	return &c, nil
}
