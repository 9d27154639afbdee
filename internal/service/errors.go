// Package service provides business logic services for Estancia.
package service

import "errors"

// Common service errors. Entity-level errors (not found, duplicate email,
// validation failures) come from the domain package; the service layer adds
// only the failure modes of its own machinery.
var (
	// ErrInternal wraps repository or infrastructure failures that callers
	// should not see in detail.
	ErrInternal = errors.New("internal server error")

	// ErrLockUnavailable means a serialization lock could not be acquired
	// within the retry budget.
	ErrLockUnavailable = errors.New("resource is busy, try again")
)
