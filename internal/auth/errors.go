package auth

import "errors"

// ErrInvalidCredentials covers both unknown usernames and wrong passwords;
// login never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ConflictError reports a registration collision on a unique field
// ("username" or "email").
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already registered"
}
