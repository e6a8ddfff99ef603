package qobuz

import (
	"errors"
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/shared"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, shared.ErrAuthMissing) {
		t.Errorf("err = %v, want wrapping ErrAuthMissing", err)
	}
}

func TestNewSucceedsWithAppIDAndToken(t *testing.T) {
	c, err := New(Config{AppID: "app", UserToken: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "qobuz" {
		t.Errorf("Name() = %q, want qobuz", c.Name())
	}
}
