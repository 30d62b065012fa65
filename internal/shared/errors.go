package shared

import "errors"

var (
	// common errors
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation error")

	// auth-specific errors
	ErrBadCredentials = errors.New("invalid credentials")

	// quota errors
	ErrQuotaExceeded = errors.New("daily edit quota exceeded")
)
