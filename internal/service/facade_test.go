package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	cachemem "github.com/solera-labs/estancia/internal/cache/memory"
	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/lock"
	"github.com/solera-labs/estancia/internal/repository/memory"
)

// newTestFacade wires the services over volatile repositories.
func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	cache := cachemem.NewCache()
	t.Cleanup(func() { _ = cache.Close() })

	return New(Config{
		Repos:  *memory.NewRepositories(),
		Locker: lock.NewNoOpLocker(),
		Cache:  cache,
		Logger: zerolog.Nop(),
	})
}

func createUser(t *testing.T, f *Facade, email string) *domain.User {
	t.Helper()
	user, err := f.Users.Create(context.Background(), CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "correct horse",
	})
	require.NoError(t, err)
	return user
}

func createAmenity(t *testing.T, f *Facade, name string) *domain.Amenity {
	t.Helper()
	amenity, err := f.Amenities.Create(context.Background(), name, "")
	require.NoError(t, err)
	return amenity
}

func createPlace(t *testing.T, f *Facade, ownerID string, amenityIDs ...string) *domain.Place {
	t.Helper()
	place, err := f.Places.Create(context.Background(), CreatePlaceInput{
		Title:       "Cozy loft",
		Description: "A quiet two-bedroom flat.",
		Price:       120,
		Latitude:    40.4168,
		Longitude:   -3.7038,
		OwnerID:     ownerID,
		AmenityIDs:  amenityIDs,
	})
	require.NoError(t, err)
	return place
}

func createReview(t *testing.T, f *Facade, userID, placeID string) *domain.Review {
	t.Helper()
	review, err := f.Reviews.Create(context.Background(), CreateReviewInput{
		Text:    "Great stay, would book again.",
		Rating:  5,
		UserID:  userID,
		PlaceID: placeID,
	})
	require.NoError(t, err)
	return review
}
