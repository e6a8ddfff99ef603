package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/user"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createOwner(t *testing.T, db *sql.DB) string {
	t.Helper()
	u := &user.User{Email: "listener@example.com", Name: "Listener"}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}
	return u.ID
}

func TestJobRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	jobs := NewJobRepository(db)

	ownerID := createOwner(t, db)

	j := &job.Import{
		OwnerID:           ownerID,
		SourcePlaylistRef: "37i9dQZF1DXcBWIGoYBM5M",
		TargetProvider:    job.YouTube,
		Status:            job.Queued,
	}
	if err := jobs.Create(context.Background(), j); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if j.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := jobs.Get(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != job.Queued {
		t.Errorf("status = %s, want QUEUED", got.Status)
	}
	if got.SourcePlaylistRef != j.SourcePlaylistRef {
		t.Errorf("source ref mismatch: %s", got.SourcePlaylistRef)
	}
}

func TestJobRepositoryGetMissing(t *testing.T) {
	db := newTestDB(t)
	jobs := NewJobRepository(db)

	_, err := jobs.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJobRepositoryUpdateStatusGuardsPrecondition(t *testing.T) {
	db := newTestDB(t)
	jobs := NewJobRepository(db)
	ownerID := createOwner(t, db)

	j := &job.Import{
		OwnerID:           ownerID,
		SourcePlaylistRef: "ref",
		TargetProvider:    job.Tidal,
		Status:            job.Queued,
	}
	if err := jobs.Create(context.Background(), j); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := jobs.UpdateStatus(context.Background(), j.ID, job.Running, job.WaitingReview, nil)
	if !errors.Is(err, shared.ErrInternalInvariant) {
		t.Fatalf("expected ErrInternalInvariant for mismatched from-state, got %v", err)
	}

	err = jobs.UpdateStatus(context.Background(), j.ID, job.Queued, job.Running, func(current *job.Import) {
		current.SourcePlaylistName = "Discover Weekly"
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := jobs.Get(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != job.Running {
		t.Errorf("status = %s, want RUNNING", got.Status)
	}
	if got.SourcePlaylistName != "Discover Weekly" {
		t.Errorf("mutate callback was not applied, got %q", got.SourcePlaylistName)
	}
}

func TestJobRepositoryListFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	jobs := NewJobRepository(db)
	ownerID := createOwner(t, db)

	for _, p := range []job.Provider{job.YouTube, job.Tidal} {
		j := &job.Import{OwnerID: ownerID, SourcePlaylistRef: "ref-" + string(p), TargetProvider: p, Status: job.Queued}
		if err := jobs.Create(context.Background(), j); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := jobs.List(context.Background(), ownerID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(all))
	}

	queued, err := jobs.List(context.Background(), ownerID, job.Queued)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(queued) != 2 {
		t.Fatalf("expected 2 queued jobs, got %d", len(queued))
	}

	done, err := jobs.List(context.Background(), ownerID, job.Done)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(done) != 0 {
		t.Errorf("expected 0 done jobs, got %d", len(done))
	}
}
