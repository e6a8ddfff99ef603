package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/domain/user"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)

	u := &user.User{Email: "dj@example.com", Name: "DJ"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := users.Get(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email != u.Email {
		t.Errorf("email = %s, want %s", got.Email, u.Email)
	}
}

func TestUserRepositoryCreateRejectsMissingEmail(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)

	err := users.Create(context.Background(), &user.User{Name: "No Email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUserRepositoryGetMissing(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)

	_, err := users.Get(context.Background(), "nope")
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
