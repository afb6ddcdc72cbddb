package store

import (
	"database/sql"
	"fmt"

	"github.com/rowanvale/chirp/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, username, email, password_hash, display_name, bio, avatar_url, is_active, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var bio, avatarURL sql.NullString
	var active int

	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName,
		&bio, &avatarURL, &active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.IsActive = active != 0
	if bio.Valid {
		u.Bio = &bio.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	return &u, nil
}

func (s *UserStore) Create(username, email, passwordHash, displayName string, bio, avatarURL *string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (username, email, password_hash, display_name, bio, avatar_url) VALUES (?, ?, ?, ?, ?, ?)`,
		username, email, passwordHash, displayName, nullString(bio), nullString(avatarURL),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetActiveByUsername returns the active user with the given username, or
// nil. Disabled accounts are invisible to login.
func (s *UserStore) GetActiveByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ? AND is_active = 1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// FindConflict reports which unique field ("username" or "email") an
// existing record already claims, or "" when both are free. Inactive users
// still hold their username and email.
func (s *UserStore) FindConflict(username, email string) (string, error) {
	row := s.db.QueryRow(
		`SELECT username, email FROM users WHERE username = ? OR email = ? LIMIT 1`,
		username, email,
	)
	var existingUsername, existingEmail string
	err := row.Scan(&existingUsername, &existingEmail)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("check user conflict: %w", err)
	}
	if existingUsername == username {
		return "username", nil
	}
	return "email", nil
}

// UpdateProfile replaces the owner-editable fields.
func (s *UserStore) UpdateProfile(id int64, displayName string, bio, avatarURL *string) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET display_name = ?, bio = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		displayName, nullString(bio), nullString(avatarURL), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	return s.GetByID(id)
}

// SetActive soft-enables or soft-disables an account. There is no hard
// delete path; disabled users keep their rows and their unique fields.
func (s *UserStore) SetActive(id int64, active bool) error {
	v := 0
	if active {
		v = 1
	}
	_, err := s.db.Exec(`UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}

// ListProfiles returns a page of active users with their post counts.
func (s *UserStore) ListProfiles(offset, limit int) ([]model.Profile, error) {
	rows, err := s.db.Query(
		`SELECT `+prefixedUserCols("u")+`,
		        (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count
		 FROM users u
		 WHERE u.is_active = 1
		 ORDER BY u.id
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		var bio, avatarURL sql.NullString
		var active int
		err := rows.Scan(
			&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.DisplayName,
			&bio, &avatarURL, &active, &p.CreatedAt, &p.UpdatedAt,
			&p.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user profile: %w", err)
		}
		p.IsActive = active != 0
		if bio.Valid {
			p.Bio = &bio.String
		}
		if avatarURL.Valid {
			p.AvatarURL = &avatarURL.String
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetProfileByUsername returns the active user with their post count, or nil.
func (s *UserStore) GetProfileByUsername(username string) (*model.Profile, error) {
	row := s.db.QueryRow(
		`SELECT `+prefixedUserCols("u")+`,
		        (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count
		 FROM users u
		 WHERE u.username = ? AND u.is_active = 1`,
		username,
	)

	var p model.Profile
	var bio, avatarURL sql.NullString
	var active int
	err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.DisplayName,
		&bio, &avatarURL, &active, &p.CreatedAt, &p.UpdatedAt,
		&p.PostCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	p.IsActive = active != 0
	if bio.Valid {
		p.Bio = &bio.String
	}
	if avatarURL.Valid {
		p.AvatarURL = &avatarURL.String
	}
	return &p, nil
}

func prefixedUserCols(alias string) string {
	return alias + `.id, ` + alias + `.username, ` + alias + `.email, ` + alias + `.password_hash, ` +
		alias + `.display_name, ` + alias + `.bio, ` + alias + `.avatar_url, ` + alias + `.is_active, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
