package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rowanvale/chirp/internal/auth"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session_id"

// SessionToken extracts the session token from the request cookie, or ""
// when absent.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ResolveUser resolves the session cookie to a principal and stores it in
// the request context when present. Anonymous requests pass through
// untouched; this is the optional mode used by public read endpoints that
// personalize output. Store failures are the one hard-fail path.
func ResolveUser(svc *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := svc.CurrentUser(token)
			if err != nil {
				logger.Error("resolve session", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if user == nil {
				// Stale or revoked token: proceed as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects requests that ResolveUser left anonymous. Used for
// all write endpoints and the who-am-I endpoint.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFrom(r.Context()); !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
