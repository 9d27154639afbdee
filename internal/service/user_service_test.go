package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solera-labs/estancia/internal/domain"
)

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	user := createUser(t, f, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.Users.Create(ctx, CreateUserInput{
			FirstName: "Other",
			LastName:  "Person",
			Email:     "ADA@example.com",
			Password:  "another password",
		})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.Users.Create(ctx, CreateUserInput{
			FirstName: "",
			LastName:  "Person",
			Email:     "person@example.com",
			Password:  "another password",
		})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)
	user := createUser(t, f, "ada@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		got, err := f.Users.Authenticate(ctx, "ADA@example.com ", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.Users.Authenticate(ctx, "ada@example.com", "wrong password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.Users.Authenticate(ctx, "nobody@example.com", "correct horse")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := f.Users.Authenticate(ctx, "not-an-email", "correct horse")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)
	first := createUser(t, f, "ada@example.com")
	second := createUser(t, f, "grace@example.com")

	t.Run("change name", func(t *testing.T) {
		newName := "Augusta"
		updated, err := f.Users.Update(ctx, first.ID, domain.UserUpdate{FirstName: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Augusta", updated.FirstName)
	})

	t.Run("change to taken email", func(t *testing.T) {
		taken := "grace@example.com"
		_, err := f.Users.Update(ctx, first.ID, domain.UserUpdate{Email: &taken})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
	})

	t.Run("change to own email", func(t *testing.T) {
		own := "grace@example.com"
		_, err := f.Users.Update(ctx, second.ID, domain.UserUpdate{Email: &own})
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		newName := "Ghost"
		_, err := f.Users.Update(ctx, "missing", domain.UserUpdate{FirstName: &newName})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserServiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	owner := createUser(t, f, "owner@example.com")
	guest := createUser(t, f, "guest@example.com")
	amenity := createAmenity(t, f, "WiFi")

	ownedPlace := createPlace(t, f, owner.ID, amenity.ID)
	otherPlace := createPlace(t, f, guest.ID, amenity.ID)

	// Review by the owner on someone else's place, and a review by another
	// user on the owner's place. Both must go when the owner goes.
	ownerReview := createReview(t, f, owner.ID, otherPlace.ID)
	guestReview := createReview(t, f, guest.ID, ownedPlace.ID)

	require.NoError(t, f.Users.Delete(ctx, owner.ID))

	_, err := f.Users.Get(ctx, owner.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.Places.GetRaw(ctx, ownedPlace.ID)
	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)

	_, err = f.Reviews.Get(ctx, ownerReview.ID)
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	_, err = f.Reviews.Get(ctx, guestReview.ID)
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	// The other user's place survives untouched.
	_, err = f.Places.GetRaw(ctx, otherPlace.ID)
	assert.NoError(t, err)
}

func TestUserServiceList(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	createUser(t, f, "a@example.com")
	createUser(t, f, "b@example.com")

	users, err := f.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
