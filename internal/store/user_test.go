package store

import (
	"testing"

	"github.com/rowanvale/chirp/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us := setupUserTestDB(t)

	bio := "hello there"
	u, err := us.Create("alice", "alice@example.com", "hash", "Alice", &bio, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "alice" || u.Email != "alice@example.com" {
		t.Errorf("unexpected identity fields: %+v", u)
	}
	if !u.IsActive {
		t.Error("new user should be active")
	}
	if u.Bio == nil || *u.Bio != "hello there" {
		t.Error("bio should round-trip")
	}
	if u.AvatarURL != nil {
		t.Error("avatar_url should be nil when unset")
	}

	got, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil || got.Username != "alice" {
		t.Fatalf("expected alice, got %+v", got)
	}
}

func TestGetActiveByUsername(t *testing.T) {
	us := setupUserTestDB(t)
	u, _ := us.Create("alice", "alice@example.com", "hash", "Alice", nil, nil)

	got, err := us.GetActiveByUsername("alice")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if got == nil {
		t.Fatal("expected active user")
	}

	if err := us.SetActive(u.ID, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	got, err = us.GetActiveByUsername("alice")
	if err != nil {
		t.Fatalf("get active after disable: %v", err)
	}
	if got != nil {
		t.Error("disabled user should be invisible to login lookups")
	}
}

func TestFindConflict(t *testing.T) {
	us := setupUserTestDB(t)
	u, _ := us.Create("alice", "alice@example.com", "hash", "Alice", nil, nil)

	field, err := us.FindConflict("alice", "new@example.com")
	if err != nil {
		t.Fatalf("find conflict: %v", err)
	}
	if field != "username" {
		t.Errorf("field = %q, want username", field)
	}

	field, _ = us.FindConflict("newname", "alice@example.com")
	if field != "email" {
		t.Errorf("field = %q, want email", field)
	}

	field, _ = us.FindConflict("newname", "new@example.com")
	if field != "" {
		t.Errorf("field = %q, want none", field)
	}

	// Uniqueness covers disabled accounts too.
	us.SetActive(u.ID, false)
	field, _ = us.FindConflict("alice", "new@example.com")
	if field != "username" {
		t.Errorf("field = %q, want username against inactive user", field)
	}
}

func TestUpdateProfile(t *testing.T) {
	us := setupUserTestDB(t)
	u, _ := us.Create("alice", "alice@example.com", "hash", "Alice", nil, nil)

	bio := "updated bio"
	avatar := "https://example.com/a.png"
	updated, err := us.UpdateProfile(u.ID, "Alice L.", &bio, &avatar)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.DisplayName != "Alice L." {
		t.Errorf("display_name = %q", updated.DisplayName)
	}
	if updated.Bio == nil || *updated.Bio != "updated bio" {
		t.Error("bio not updated")
	}
	if updated.AvatarURL == nil || *updated.AvatarURL != avatar {
		t.Error("avatar_url not updated")
	}
	// Identity fields are immutable through profile edits.
	if updated.Username != "alice" || updated.Email != "alice@example.com" {
		t.Error("username/email must not change")
	}

	// Clearing optional fields.
	updated, err = us.UpdateProfile(u.ID, "Alice L.", nil, nil)
	if err != nil {
		t.Fatalf("clear profile fields: %v", err)
	}
	if updated.Bio != nil || updated.AvatarURL != nil {
		t.Error("optional fields should clear to nil")
	}
}

func TestListProfilesSkipsInactive(t *testing.T) {
	us := setupUserTestDB(t)
	us.Create("alice", "alice@example.com", "hash", "Alice", nil, nil)
	bob, _ := us.Create("bob", "bob@example.com", "hash", "Bob", nil, nil)
	us.SetActive(bob.ID, false)

	profiles, err := us.ListProfiles(0, 20)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles = %d, want 1", len(profiles))
	}
	if profiles[0].Username != "alice" {
		t.Errorf("username = %q, want alice", profiles[0].Username)
	}
	if profiles[0].FollowerCount != 0 {
		t.Errorf("follower_count = %d, want 0", profiles[0].FollowerCount)
	}
}

func TestGetProfileByUsername(t *testing.T) {
	us := setupUserTestDB(t)
	us.Create("alice", "alice@example.com", "hash", "Alice", nil, nil)

	p, err := us.GetProfileByUsername("alice")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil || p.Username != "alice" {
		t.Fatalf("expected alice profile, got %+v", p)
	}
	if p.PostCount != 0 {
		t.Errorf("post_count = %d, want 0", p.PostCount)
	}

	p, err = us.GetProfileByUsername("nobody")
	if err != nil {
		t.Fatalf("get missing profile: %v", err)
	}
	if p != nil {
		t.Error("unknown username should return nil")
	}
}
