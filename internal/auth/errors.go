// Package auth provides JWT-based authentication for Estancia.
package auth

import "errors"

// Authentication errors.
var (
	// ErrMissingToken indicates the Authorization header is absent or malformed.
	ErrMissingToken = errors.New("missing or malformed authorization header")

	// ErrInvalidToken indicates the token failed signature or claim validation.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden indicates the identity lacks the required privilege.
	ErrForbidden = errors.New("admin privileges required")
)
