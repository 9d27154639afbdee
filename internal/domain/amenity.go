package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxAmenityNameLength bounds amenity names.
const maxAmenityNameLength = 100

// Amenity represents a feature a place can offer (wifi, pool, parking).
// Amenities are referenced by places, never owned by them: deleting a place
// leaves its amenities intact.
type Amenity struct {
	// ID is the opaque unique identifier, assigned at creation.
	ID string `json:"id"`

	// Name is required, at most 100 characters.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// CreatedAt is the timestamp when the amenity was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every successful mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAmenity creates a validated Amenity.
func NewAmenity(name, description string) (*Amenity, error) {
	name, err := validateAmenityName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Amenity{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AmenityUpdate carries the fields of a partial amenity update.
type AmenityUpdate struct {
	Name        *string
	Description *string
}

// Update applies the provided fields, re-running the creation-time
// validators. On error the amenity is left unchanged.
func (a *Amenity) Update(upd AmenityUpdate) error {
	next := *a

	if upd.Name != nil {
		v, err := validateAmenityName(*upd.Name)
		if err != nil {
			return err
		}
		next.Name = v
	}
	if upd.Description != nil {
		next.Description = strings.TrimSpace(*upd.Description)
	}

	next.UpdatedAt = time.Now().UTC()
	*a = next
	return nil
}

func validateAmenityName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "is required")
	}
	if len(name) > maxAmenityNameLength {
		return "", invalid("name", "must be at most 100 characters")
	}
	return name, nil
}
