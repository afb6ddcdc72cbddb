package auth

import (
	"context"

	"github.com/rowanvale/chirp/internal/model"
)

type contextKey struct{}

// WithUser stores the authenticated user in the request context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom returns the authenticated user for this request, if any.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*model.User)
	return u, ok && u != nil
}

// UserID returns the authenticated user's ID, or 0 for anonymous requests.
func UserID(ctx context.Context) int64 {
	u, ok := UserFrom(ctx)
	if !ok {
		return 0
	}
	return u.ID
}
