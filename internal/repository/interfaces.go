// Package repository defines data access interfaces for Estancia.
// These interfaces abstract storage operations, allowing for different
// implementations (in-memory, SQLite, PostgreSQL) while keeping the service
// layer clean. The facade is written exclusively against these interfaces:
// swapping backends must not change business logic.
package repository

import (
	"context"

	"github.com/solera-labs/estancia/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrAlreadyExists if the
	// identifier is taken and domain.ErrEmailAlreadyRegistered if the email
	// uniqueness constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns domain.ErrUserNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email.
	// Returns domain.ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users. Ordering is unspecified; the volatile backend
	// happens to preserve insertion order.
	List(ctx context.Context) ([]*domain.User, error)

	// Update persists an existing user.
	// Returns domain.ErrUserNotFound if absent.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID.
	// Returns domain.ErrUserNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Amenity Repository
// =============================================================================

// AmenityRepository defines the interface for amenity data access.
type AmenityRepository interface {
	// Create persists a new amenity.
	Create(ctx context.Context, amenity *domain.Amenity) error

	// GetByID retrieves an amenity by ID.
	// Returns domain.ErrAmenityNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Amenity, error)

	// GetByName retrieves the first amenity with the given name.
	// Returns domain.ErrAmenityNotFound if absent.
	GetByName(ctx context.Context, name string) (*domain.Amenity, error)

	// List returns all amenities.
	List(ctx context.Context) ([]*domain.Amenity, error)

	// Update persists an existing amenity.
	Update(ctx context.Context, amenity *domain.Amenity) error

	// Delete removes an amenity by ID.
	// Returns domain.ErrAmenityNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Place Repository
// =============================================================================

// PlaceRepository defines the interface for place data access, including the
// place-amenity association.
type PlaceRepository interface {
	// Create persists a new place together with its amenity references.
	Create(ctx context.Context, place *domain.Place) error

	// GetByID retrieves a place by ID with its amenity references.
	// Returns domain.ErrPlaceNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Place, error)

	// List returns all places.
	List(ctx context.Context) ([]*domain.Place, error)

	// ListByOwner returns all places owned by the given user.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error)

	// Update persists an existing place. The amenity association is not
	// touched: it is fixed at creation.
	Update(ctx context.Context, place *domain.Place) error

	// Delete removes a place and its amenity references by ID.
	// Returns domain.ErrPlaceNotFound if absent.
	Delete(ctx context.Context, id string) error

	// DeleteByOwner removes all places owned by the given user.
	// Deleting nothing is not an error.
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// =============================================================================
// Review Repository
// =============================================================================

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by ID.
	// Returns domain.ErrReviewNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns all reviews.
	List(ctx context.Context) ([]*domain.Review, error)

	// ListByPlace returns all reviews for a place. An unknown place yields
	// an empty slice, never an error.
	ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)

	// ListByUser returns all reviews written by a user.
	ListByUser(ctx context.Context, userID string) ([]*domain.Review, error)

	// Update persists an existing review.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review by ID.
	// Returns domain.ErrReviewNotFound if absent.
	Delete(ctx context.Context, id string) error

	// DeleteByPlace removes all reviews for a place.
	// Deleting nothing is not an error.
	DeleteByPlace(ctx context.Context, placeID string) error

	// DeleteByUser removes all reviews written by a user.
	// Deleting nothing is not an error.
	DeleteByUser(ctx context.Context, userID string) error
}

// =============================================================================
// Aggregate
// =============================================================================

// Repositories holds all repository instances for one backend.
type Repositories struct {
	Users     UserRepository
	Amenities AmenityRepository
	Places    PlaceRepository
	Reviews   ReviewRepository
}

// DatabaseHealth is an interface for database health checks, satisfied by
// the durable backends' connection wrappers.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}
