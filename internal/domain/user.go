// Package domain contains the core business entities for Estancia.
// Every constrained field is validated at the point of assignment: the
// constructors and the Update methods run the same validators, so no code
// path can produce an entity in an invalid state.
package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// maxNameLength bounds first and last names.
	maxNameLength = 50

	// minPasswordLength is enforced on the plaintext before hashing.
	minPasswordLength = 8
)

// User represents a registered user in the catalogue.
// A user owns places and reviews: deleting a user cascades to both.
type User struct {
	// ID is the opaque unique identifier, assigned at creation.
	ID string `json:"id"`

	// FirstName is required, at most 50 characters.
	FirstName string `json:"first_name"`

	// LastName is required, at most 50 characters.
	LastName string `json:"last_name"`

	// Email is the unique, normalized (lower-cased) address.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed in API responses.
	PasswordHash string `json:"-"`

	// IsAdmin indicates administrative privileges.
	IsAdmin bool `json:"is_admin"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every successful mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a validated User. The plaintext password is checked for
// minimum length and stored only as a bcrypt hash.
func NewUser(firstName, lastName, email, password string, isAdmin bool) (*User, error) {
	firstName, err := validateName("first_name", firstName)
	if err != nil {
		return nil, err
	}
	lastName, err = validateName("last_name", lastName)
	if err != nil {
		return nil, err
	}
	email, err = NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UserUpdate carries the fields of a partial user update. Nil fields are
// left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// Update applies the provided fields, re-running the creation-time
// validators. On error the user is left unchanged.
func (u *User) Update(upd UserUpdate) error {
	next := *u

	if upd.FirstName != nil {
		v, err := validateName("first_name", *upd.FirstName)
		if err != nil {
			return err
		}
		next.FirstName = v
	}
	if upd.LastName != nil {
		v, err := validateName("last_name", *upd.LastName)
		if err != nil {
			return err
		}
		next.LastName = v
	}
	if upd.Email != nil {
		v, err := NormalizeEmail(*upd.Email)
		if err != nil {
			return err
		}
		next.Email = v
	}
	if upd.Password != nil {
		hash, err := hashPassword(*upd.Password)
		if err != nil {
			return err
		}
		next.PasswordHash = hash
	}
	if upd.IsAdmin != nil {
		next.IsAdmin = *upd.IsAdmin
	}

	next.UpdatedAt = time.Now().UTC()
	*u = next
	return nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// Used by the identity layer during login; the core never stores plaintext.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail validates the address syntactically and returns the
// canonical (trimmed, lower-cased) form used for uniqueness checks.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "is not a valid address")
	}
	return email, nil
}

// validateName trims and bounds-checks a name field.
func validateName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "is required")
	}
	if len(value) > maxNameLength {
		return "", invalid(field, "must be at most 50 characters")
	}
	return value, nil
}

// hashPassword enforces the minimum plaintext length and hashes with bcrypt.
func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", invalid("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
