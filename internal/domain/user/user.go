// Package user defines the operator account and its per-provider catalog
// connections.
package user

import (
	"fmt"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
)

// User is an operator on whose behalf jobs run.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the user's required fields.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user: id is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user: email is required")
	}
	return nil
}

// Connection is one user's stored credential for one provider. The
// (UserID, Provider) pair is unique: a user has at most one connection per
// catalog, re-authenticating overwrites rather than duplicates.
type Connection struct {
	ID         string
	UserID     string
	Provider   job.Provider
	Credential string // opaque JSON blob; shape is provider-defined
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the connection's required fields.
func (c *Connection) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("connection: id is required")
	}
	if c.UserID == "" {
		return fmt.Errorf("connection: user id is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("connection: provider is required")
	}
	if c.Credential == "" {
		return fmt.Errorf("connection: credential is required")
	}
	return nil
}
