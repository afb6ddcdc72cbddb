package auth

import (
	"fmt"
	"log/slog"

	"github.com/rowanvale/chirp/internal/model"
	"github.com/rowanvale/chirp/internal/store"
)

// Service is the authentication entry point used by the HTTP layer:
// registration, credential login, logout, and token-to-user resolution.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewService(us *store.UserStore, ss *store.SessionStore, logger *slog.Logger) *Service {
	return &Service{users: us, sessions: ss, logger: logger}
}

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Bio         *string
	AvatarURL   *string
}

// Register creates a user and immediately logs them in, returning the user
// and the new session token. Username and email collisions (against active
// or inactive users) fail with a *ConflictError naming the field.
func (s *Service) Register(p RegisterParams) (*model.User, string, error) {
	field, err := s.users.FindConflict(p.Username, p.Email)
	if err != nil {
		return nil, "", fmt.Errorf("check conflicts: %w", err)
	}
	if field != "" {
		return nil, "", &ConflictError{Field: field}
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(p.Username, p.Email, hash, p.DisplayName, p.Bio, p.AvatarURL)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, sess.Token, nil
}

// Login verifies the credentials and mints a fresh session, deactivating
// any previous one. Unknown usernames and bad passwords are both reported
// as ErrInvalidCredentials.
func (s *Service) Login(username, password string) (*model.User, string, error) {
	user, err := s.users.GetActiveByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return user, sess.Token, nil
}

// Logout deactivates the session for the given token. It is idempotent:
// unknown, already-invalidated, and empty tokens are all no-ops.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.sessions.Invalidate(token); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// CurrentUser resolves a session token to its user. It returns nil without
// touching the store for empty tokens, and nil for sessions that are
// missing, inactive, or expired. A user disabled after login also resolves
// to nil even while their session is otherwise valid.
func (s *Service) CurrentUser(token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.sessions.GetByToken(token)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	user, err := s.users.GetByID(sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("look up session user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}
