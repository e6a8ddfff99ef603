package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/user"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

func TestConnectionRepositoryUpsertInsertsThenUpdates(t *testing.T) {
	db := newTestDB(t)
	conns := NewConnectionRepository(db)
	ownerID := createOwner(t, db)

	c := &user.Connection{UserID: ownerID, Provider: job.Spotify, Credential: `{"access_token":"abc"}`}
	if err := conns.Upsert(context.Background(), c); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	firstID := c.ID
	if firstID == "" {
		t.Fatal("expected generated id")
	}

	c2 := &user.Connection{UserID: ownerID, Provider: job.Spotify, Credential: `{"access_token":"refreshed"}`}
	if err := conns.Upsert(context.Background(), c2); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if c2.ID != firstID {
		t.Errorf("upsert should reuse id %s, got %s", firstID, c2.ID)
	}

	got, err := conns.Get(context.Background(), ownerID, job.Spotify)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Credential != c2.Credential {
		t.Errorf("credential = %q, want %q", got.Credential, c2.Credential)
	}
}

func TestConnectionRepositoryGetMissing(t *testing.T) {
	db := newTestDB(t)
	conns := NewConnectionRepository(db)
	ownerID := createOwner(t, db)

	_, err := conns.Get(context.Background(), ownerID, job.Qobuz)
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
