package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solera-labs/estancia/internal/domain"
)

func TestPlaceServiceCreate(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	wifi := createAmenity(t, f, "WiFi")
	pool := createAmenity(t, f, "Pool")

	t.Run("valid", func(t *testing.T) {
		place := createPlace(t, f, owner.ID, wifi.ID, pool.ID)
		assert.Equal(t, owner.ID, place.OwnerID)
		assert.Equal(t, []string{wifi.ID, pool.ID}, place.AmenityIDs)
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := f.Places.Create(ctx, CreatePlaceInput{
			Title:       "Cozy loft",
			Description: "A quiet two-bedroom flat.",
			Price:       120,
			OwnerID:     "missing",
			AmenityIDs:  []string{wifi.ID},
		})
		assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
	})

	t.Run("missing amenities reported together", func(t *testing.T) {
		_, err := f.Places.Create(ctx, CreatePlaceInput{
			Title:       "Cozy loft",
			Description: "A quiet two-bedroom flat.",
			Price:       120,
			OwnerID:     owner.ID,
			AmenityIDs:  []string{wifi.ID, "ghost-1", "ghost-2"},
		})
		var missing *domain.MissingAmenitiesError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"ghost-1", "ghost-2"}, missing.IDs)
	})

	t.Run("validation precedes resolution", func(t *testing.T) {
		_, err := f.Places.Create(ctx, CreatePlaceInput{
			Title:       "Cozy loft",
			Description: "A quiet two-bedroom flat.",
			Price:       -1,
			OwnerID:     "missing",
			AmenityIDs:  []string{"ghost"},
		})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestPlaceServiceGetDetail(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)

	detail, err := f.Places.Get(ctx, place.ID)
	require.NoError(t, err)

	assert.Equal(t, place.ID, detail.ID)
	assert.Equal(t, owner.ID, detail.Owner.ID)
	assert.Equal(t, "owner@example.com", detail.Owner.Email)
	require.Len(t, detail.Amenities, 1)
	assert.Equal(t, "WiFi", detail.Amenities[0].Name)

	t.Run("served from cache on second read", func(t *testing.T) {
		again, err := f.Places.Get(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, detail.ID, again.ID)
		assert.Equal(t, detail.Owner, again.Owner)
	})

	t.Run("unknown place", func(t *testing.T) {
		_, err := f.Places.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
	})
}

func TestPlaceServiceDetailSkipsDeletedAmenities(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	wifi := createAmenity(t, f, "WiFi")
	pool := createAmenity(t, f, "Pool")
	place := createPlace(t, f, owner.ID, wifi.ID, pool.ID)

	// Warm the cache, then delete an amenity behind its back.
	_, err := f.Places.Get(ctx, place.ID)
	require.NoError(t, err)
	require.NoError(t, f.Amenities.Delete(ctx, pool.ID))

	// The cached view may still carry the deleted amenity until it expires;
	// a rebuilt view must not.
	_, err = f.Places.Update(ctx, place.ID, domain.PlaceUpdate{})
	require.NoError(t, err)

	detail, err := f.Places.Get(ctx, place.ID)
	require.NoError(t, err)
	require.Len(t, detail.Amenities, 1)
	assert.Equal(t, wifi.ID, detail.Amenities[0].ID)
}

func TestPlaceServiceUpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)

	_, err := f.Places.Get(ctx, place.ID)
	require.NoError(t, err)

	newTitle := "Sunny loft"
	_, err = f.Places.Update(ctx, place.ID, domain.PlaceUpdate{Title: &newTitle})
	require.NoError(t, err)

	detail, err := f.Places.Get(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny loft", detail.Title)
}

func TestPlaceServiceDeleteRemovesReviews(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	guest := createUser(t, f, "guest@example.com")
	wifi := createAmenity(t, f, "WiFi")
	place := createPlace(t, f, owner.ID, wifi.ID)
	review := createReview(t, f, guest.ID, place.ID)

	require.NoError(t, f.Places.Delete(ctx, place.ID))

	_, err := f.Places.GetRaw(ctx, place.ID)
	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)

	_, err = f.Reviews.Get(ctx, review.ID)
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	assert.ErrorIs(t, f.Places.Delete(ctx, place.ID), domain.ErrPlaceNotFound)
}

func TestPlaceServiceListByOwner(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	other := createUser(t, f, "other@example.com")
	wifi := createAmenity(t, f, "WiFi")

	mine := createPlace(t, f, owner.ID, wifi.ID)
	createPlace(t, f, other.ID, wifi.ID)

	summaries, err := f.Places.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, mine.ID, summaries[0].ID)

	all, err := f.Places.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
