package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rowanvale/chirp/internal/model"
)

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 7 * 24 * time.Hour

// tokenBytes gives 256 bits of entropy, encoded URL-safe.
const tokenBytes = 32

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

const sessionCols = `id, token, user_id, expires_at, is_active, created_at`

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var s model.Session
	var active int
	err := scanner.Scan(&s.ID, &s.Token, &s.UserID, &s.ExpiresAt, &active, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.IsActive = active != 0
	return &s, nil
}

// Create mints a new session for the user with a crypto-random token and a
// 7-day expiry. Any previously active sessions for the same user are
// deactivated in the same transaction, so a reader never observes more than
// one active session per user.
func (s *SessionStore) Create(userID int64) (*model.Session, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	expiresAt := time.Now().UTC().Add(SessionTTL)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE sessions SET is_active = 0 WHERE user_id = ? AND is_active = 1`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("deactivate old sessions: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("get created session: %w", err)
	}
	return sess, nil
}

// GetByToken returns the session for the token if it is active and
// unexpired, or nil. Expiry is checked here, lazily; the sweep only tidies
// flags. Times are compared as bound parameters so both sides share the
// driver's encoding.
func (s *SessionStore) GetByToken(token string) (*model.Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionCols+` FROM sessions WHERE token = ? AND is_active = 1 AND expires_at > ?`,
		token, time.Now().UTC(),
	)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	return sess, nil
}

// Invalidate deactivates the active session matching token. It reports
// whether a session was actually deactivated, so a second call with the
// same token returns false.
func (s *SessionStore) Invalidate(token string) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE sessions SET is_active = 0 WHERE token = ? AND is_active = 1`,
		token,
	)
	if err != nil {
		return false, fmt.Errorf("invalidate session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// DeactivateExpired flips is_active off for every session past its expiry
// and returns how many were swept. Lookup-time expiry makes this a
// housekeeping pass, not a correctness requirement.
func (s *SessionStore) DeactivateExpired() (int64, error) {
	result, err := s.db.Exec(
		`UPDATE sessions SET is_active = 0 WHERE is_active = 1 AND expires_at <= ?`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
