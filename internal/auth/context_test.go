package auth

import (
	"context"
	"testing"

	"github.com/rowanvale/chirp/internal/model"
)

func TestWithUserAndUserFrom(t *testing.T) {
	u := &model.User{ID: 7, Username: "alice"}

	ctx := WithUser(context.Background(), u)
	got, ok := UserFrom(ctx)
	if !ok {
		t.Fatal("expected user in context")
	}
	if got.ID != 7 {
		t.Errorf("ID = %d, want 7", got.ID)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
}

func TestUserFromMissing(t *testing.T) {
	_, ok := UserFrom(context.Background())
	if ok {
		t.Error("expected false for missing user")
	}
}

func TestUserFromNil(t *testing.T) {
	ctx := WithUser(context.Background(), nil)
	if _, ok := UserFrom(ctx); ok {
		t.Error("expected false for nil user")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithUser(context.Background(), &model.User{ID: 42})
	if UserID(ctx) != 42 {
		t.Errorf("UserID = %d, want 42", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for anonymous context")
	}
}
