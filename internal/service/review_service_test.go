package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solera-labs/estancia/internal/domain"
)

func TestReviewServiceCreate(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	guest := createUser(t, f, "guest@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)

	t.Run("valid", func(t *testing.T) {
		review := createReview(t, f, guest.ID, place.ID)
		assert.Equal(t, guest.ID, review.UserID)
		assert.Equal(t, place.ID, review.PlaceID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.Reviews.Create(ctx, CreateReviewInput{
			Text:    "Great stay, would book again.",
			Rating:  5,
			UserID:  "missing",
			PlaceID: place.ID,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidUserOrPlace)
	})

	t.Run("unknown place", func(t *testing.T) {
		_, err := f.Reviews.Create(ctx, CreateReviewInput{
			Text:    "Great stay, would book again.",
			Rating:  5,
			UserID:  guest.ID,
			PlaceID: "missing",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidUserOrPlace)
	})

	t.Run("invalid rating", func(t *testing.T) {
		_, err := f.Reviews.Create(ctx, CreateReviewInput{
			Text:    "Great stay, would book again.",
			Rating:  6,
			UserID:  guest.ID,
			PlaceID: place.ID,
		})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestReviewServiceListByPlace(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	guest := createUser(t, f, "guest@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)

	createReview(t, f, guest.ID, place.ID)
	createReview(t, f, owner.ID, place.ID)

	reviews, err := f.Reviews.ListByPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	t.Run("unknown place has no reviews", func(t *testing.T) {
		reviews, err := f.Reviews.ListByPlace(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})
}

func TestReviewServiceUpdate(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	guest := createUser(t, f, "guest@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)
	review := createReview(t, f, guest.ID, place.ID)

	newRating := 2
	updated, err := f.Reviews.Update(ctx, review.ID, domain.ReviewUpdate{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, guest.ID, updated.UserID)

	_, err = f.Reviews.Update(ctx, "missing", domain.ReviewUpdate{Rating: &newRating})
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
}

func TestReviewServiceDelete(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	guest := createUser(t, f, "guest@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)
	review := createReview(t, f, guest.ID, place.ID)

	require.NoError(t, f.Reviews.Delete(ctx, review.ID))
	assert.ErrorIs(t, f.Reviews.Delete(ctx, review.ID), domain.ErrReviewNotFound)

	// The place itself is unaffected.
	_, err := f.Places.GetRaw(ctx, place.ID)
	assert.NoError(t, err)
}
