package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rowanvale/chirp/internal/auth"
	"github.com/rowanvale/chirp/internal/database"
	"github.com/rowanvale/chirp/internal/store"
)

func setupAuthService(t *testing.T) *auth.Service {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return auth.NewService(store.NewUserStore(db), store.NewSessionStore(db), slog.Default())
}

func registerUser(t *testing.T, svc *auth.Service) string {
	t.Helper()
	_, token, err := svc.Register(auth.RegisterParams{
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "secret-pw",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return token
}

// echoUser reports whether a principal made it into the request context.
func echoUser(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.UserFrom(r.Context()); ok {
		w.Write([]byte("user:" + user.Username))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestResolveUserAnonymousPassthrough(t *testing.T) {
	svc := setupAuthService(t)
	handler := ResolveUser(svc, slog.Default())(http.HandlerFunc(echoUser))

	// No cookie at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/posts", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("no cookie: code=%d body=%q", rec.Code, rec.Body.String())
	}

	// A stale token also passes through as anonymous.
	req := httptest.NewRequest("GET", "/posts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-token"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("stale cookie: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestResolveUserAttachesPrincipal(t *testing.T) {
	svc := setupAuthService(t)
	token := registerUser(t, svc)
	handler := ResolveUser(svc, slog.Default())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest("GET", "/posts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "user:alice" {
		t.Errorf("body = %q, want user:alice", rec.Body.String())
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	svc := setupAuthService(t)
	handler := ResolveUser(svc, slog.Default())(RequireUser(http.HandlerFunc(echoUser)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/posts", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), "Authentication required") {
		t.Errorf("body = %q, want authentication error", rec.Body.String())
	}
}

func TestRequireUserAdmitsAuthenticated(t *testing.T) {
	svc := setupAuthService(t)
	token := registerUser(t, svc)
	handler := ResolveUser(svc, slog.Default())(RequireUser(http.HandlerFunc(echoUser)))

	req := httptest.NewRequest("POST", "/posts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "user:alice" {
		t.Errorf("body = %q, want user:alice", rec.Body.String())
	}
}

func TestRequireUserAfterLogout(t *testing.T) {
	svc := setupAuthService(t)
	token := registerUser(t, svc)
	if err := svc.Logout(token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	handler := ResolveUser(svc, slog.Default())(RequireUser(http.HandlerFunc(echoUser)))
	req := httptest.NewRequest("POST", "/posts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401 after logout", rec.Code)
	}
}
