package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/domain/user"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// UserRepository implements store.Users against SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a UserRepository with the given database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with a generated id and sequence.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	sequence, err := NextSequence(ctx, r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	u.ID = shared.GenerateID()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := u.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, sequence, email, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, sequence, u.Email, u.Name, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Get retrieves a user by id, excluding soft-deleted users.
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, created_at, updated_at
		FROM users WHERE id = ? AND deleted_at IS NULL
	`, id)

	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
