package database

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenAppliesPragmas(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestOpenFileUsesWAL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

// Foreign keys must be enforced without any per-connection setup, or the
// ON DELETE CASCADE constraints in the migration are decorative.
func TestOpenEnforcesForeignKeys(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(
		`INSERT INTO posts (user_id, content) VALUES (999, 'orphan')`,
	); err == nil {
		t.Fatal("insert referencing a missing user should fail")
	}

	if _, err := db.Exec(
		`INSERT INTO users (username, email, password_hash, display_name) VALUES ('alice', 'alice@example.com', 'x', 'Alice')`,
	); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO posts (user_id, content) VALUES (1, 'hello')`); err != nil {
		t.Fatalf("insert post: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO comments (post_id, user_id, content) VALUES (1, 1, 'hi')`); err != nil {
		t.Fatalf("insert comment: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM posts WHERE id = 1`); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	var comments int
	if err := db.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&comments); err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if comments != 0 {
		t.Errorf("comments after cascade = %d, want 0", comments)
	}
}
