// Package domain contains the core business entities for Estancia.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyRegistered indicates another user already holds the email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ===========================================
	// Amenity Errors
	// ===========================================

	// ErrAmenityNotFound indicates the requested amenity does not exist.
	ErrAmenityNotFound = errors.New("amenity not found")

	// ===========================================
	// Place Errors
	// ===========================================

	// ErrPlaceNotFound indicates the requested place does not exist.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrOwnerNotFound indicates a place references a user that does not exist.
	// This is an integrity failure on a write, not a lookup miss.
	ErrOwnerNotFound = errors.New("owner not found")

	// ===========================================
	// Review Errors
	// ===========================================

	// ErrReviewNotFound indicates the requested review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrInvalidUserOrPlace indicates a review references a user or place
	// that does not exist.
	ErrInvalidUserOrPlace = errors.New("invalid user_id or place_id")

	// ===========================================
	// Storage Errors
	// ===========================================

	// ErrAlreadyExists indicates a record with the same identifier already
	// exists. Every backend returns this from Create, including the volatile
	// one: there is no silent overwrite by identifier.
	ErrAlreadyExists = errors.New("entity already exists")
)

// ValidationError reports a field that failed its invariant. It is raised at
// entity construction or update time and propagated unchanged to the caller.
type ValidationError struct {
	// Field is the payload key of the offending field (e.g. "first_name").
	Field string

	// Reason is a human-readable description of the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// invalid builds a ValidationError for a field.
func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// MissingAmenitiesError reports amenity identifiers that did not resolve to
// existing amenities during place creation. It carries every missing
// identifier rather than just the first one.
type MissingAmenitiesError struct {
	// IDs are the identifiers that did not resolve.
	IDs []string
}

// Error implements the error interface.
func (e *MissingAmenitiesError) Error() string {
	return fmt.Sprintf("amenities not found for ids: %s", strings.Join(e.IDs, ", "))
}

// IsIntegrity reports whether err is a referential-integrity failure: a
// reference field on a write that does not resolve to an existing record.
func IsIntegrity(err error) bool {
	var ma *MissingAmenitiesError
	if errors.As(err, &ma) {
		return true
	}
	return errors.Is(err, ErrOwnerNotFound) || errors.Is(err, ErrInvalidUserOrPlace)
}
