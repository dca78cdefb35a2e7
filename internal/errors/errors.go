package errors

import (
	"errors"
	"fmt"
)

// Common error types for the PlumaSphere client
var (
	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginFailed        = errors.New("login failed")
	ErrIdentityFailed     = errors.New("get identity failed")

	// Token errors
	ErrNoToken             = errors.New("no token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshFailed       = errors.New("token refresh failed")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Persistence errors
	ErrMalformedState = errors.New("malformed persisted state")

	// Session errors
	ErrSessionExpired = errors.New("session expired")

	// Configuration errors
	ErrConfigNotLoaded = errors.New("configuration not loaded")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
