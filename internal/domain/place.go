package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxTitleLength bounds place titles.
const maxTitleLength = 100

// Place represents a rental listing. A place belongs to exactly one owner
// and references a deduplicated set of amenities. Referential checks on
// OwnerID and AmenityIDs belong to the facade, not to this type: the
// volatile backend enforces no constraints of its own.
type Place struct {
	// ID is the opaque unique identifier, assigned at creation.
	ID string `json:"id"`

	// Title is required, at most 100 characters.
	Title string `json:"title"`

	// Description is required free text.
	Description string `json:"description"`

	// Price per night. Strictly positive.
	Price float64 `json:"price"`

	// Latitude in [-90, 90].
	Latitude float64 `json:"latitude"`

	// Longitude in [-180, 180].
	Longitude float64 `json:"longitude"`

	// OwnerID references the owning user. Immutable after creation.
	OwnerID string `json:"owner_id"`

	// AmenityIDs is the deduplicated set of referenced amenities.
	// At least one is required at creation.
	AmenityIDs []string `json:"amenities"`

	// CreatedAt is the timestamp when the place was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every successful mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlace creates a validated Place. Amenity identifiers are deduplicated
// preserving order; the list must not be empty.
func NewPlace(title, description string, price, latitude, longitude float64, ownerID string, amenityIDs []string) (*Place, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalid("description", "is required")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateLatitude(latitude); err != nil {
		return nil, err
	}
	if err := validateLongitude(longitude); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, invalid("owner_id", "is required")
	}
	amenityIDs = dedupeIDs(amenityIDs)
	if len(amenityIDs) == 0 {
		return nil, invalid("amenities", "at least one amenity is required")
	}

	now := time.Now().UTC()
	return &Place{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Price:       price,
		Latitude:    latitude,
		Longitude:   longitude,
		OwnerID:     ownerID,
		AmenityIDs:  amenityIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PlaceUpdate carries the fields of a partial place update. OwnerID and
// AmenityIDs are not part of it: the owner is immutable and the amenity set
// is fixed at creation.
type PlaceUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
}

// Update applies the provided fields, re-running the creation-time
// validators. On error the place is left unchanged.
func (p *Place) Update(upd PlaceUpdate) error {
	next := *p

	if upd.Title != nil {
		v, err := validateTitle(*upd.Title)
		if err != nil {
			return err
		}
		next.Title = v
	}
	if upd.Description != nil {
		v := strings.TrimSpace(*upd.Description)
		if v == "" {
			return invalid("description", "is required")
		}
		next.Description = v
	}
	if upd.Price != nil {
		if err := validatePrice(*upd.Price); err != nil {
			return err
		}
		next.Price = *upd.Price
	}
	if upd.Latitude != nil {
		if err := validateLatitude(*upd.Latitude); err != nil {
			return err
		}
		next.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		if err := validateLongitude(*upd.Longitude); err != nil {
			return err
		}
		next.Longitude = *upd.Longitude
	}

	next.UpdatedAt = time.Now().UTC()
	*p = next
	return nil
}

// HasAmenity reports whether the place references the given amenity.
func (p *Place) HasAmenity(amenityID string) bool {
	for _, id := range p.AmenityIDs {
		if id == amenityID {
			return true
		}
	}
	return false
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if len(title) > maxTitleLength {
		return "", invalid("title", "must be at most 100 characters")
	}
	return title, nil
}

// validatePrice requires a strictly positive price on both create and update.
func validatePrice(price float64) error {
	if price <= 0 {
		return invalid("price", "must be a positive number")
	}
	return nil
}

func validateLatitude(latitude float64) error {
	if latitude < -90 || latitude > 90 {
		return invalid("latitude", "must be between -90 and 90")
	}
	return nil
}

func validateLongitude(longitude float64) error {
	if longitude < -180 || longitude > 180 {
		return invalid("longitude", "must be between -180 and 180")
	}
	return nil
}

// dedupeIDs removes duplicate and blank identifiers, preserving order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
