package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// minReviewTextLength is the strict creation-path minimum.
	minReviewTextLength = 10

	// Rating bounds, inclusive.
	minRating = 1
	maxRating = 5
)

// Review represents a user's review of a place. Both references must
// resolve to existing records at creation time; the facade verifies this
// before the first persistence call.
type Review struct {
	// ID is the opaque unique identifier, assigned at creation.
	ID string `json:"id"`

	// Text is required, at least 10 characters.
	Text string `json:"text"`

	// Rating is an integer in [1, 5].
	Rating int `json:"rating"`

	// UserID references the author.
	UserID string `json:"user_id"`

	// PlaceID references the reviewed place.
	PlaceID string `json:"place_id"`

	// CreatedAt is the timestamp when the review was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every successful mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReview creates a validated Review.
func NewReview(text string, rating int, userID, placeID string) (*Review, error) {
	text, err := validateReviewText(text)
	if err != nil {
		return nil, err
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("user_id", "is required")
	}
	if strings.TrimSpace(placeID) == "" {
		return nil, invalid("place_id", "is required")
	}

	now := time.Now().UTC()
	return &Review{
		ID:        uuid.NewString(),
		Text:      text,
		Rating:    rating,
		UserID:    userID,
		PlaceID:   placeID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ReviewUpdate carries the fields of a partial review update. The user and
// place references are immutable.
type ReviewUpdate struct {
	Text   *string
	Rating *int
}

// Update applies the provided fields, re-running the creation-time
// validators. On error the review is left unchanged.
func (r *Review) Update(upd ReviewUpdate) error {
	next := *r

	if upd.Text != nil {
		v, err := validateReviewText(*upd.Text)
		if err != nil {
			return err
		}
		next.Text = v
	}
	if upd.Rating != nil {
		if err := validateRating(*upd.Rating); err != nil {
			return err
		}
		next.Rating = *upd.Rating
	}

	next.UpdatedAt = time.Now().UTC()
	*r = next
	return nil
}

func validateReviewText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("text", "is required")
	}
	if len(text) < minReviewTextLength {
		return "", invalid("text", "must be at least 10 characters")
	}
	return text, nil
}

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return invalid("rating", "must be an integer between 1 and 5")
	}
	return nil
}
