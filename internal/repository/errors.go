package repository

import "errors"

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found. The typed
	// sentinels in the domain package (domain.ErrUserNotFound etc.) wrap the
	// entity kind; this one exists for backend-internal plumbing that does
	// not know the kind.
	ErrNotFound = errors.New("not found")
)
