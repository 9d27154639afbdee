package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solera-labs/estancia/internal/domain"
)

func TestAmenityServiceCRUD(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	amenity, err := f.Amenities.Create(ctx, "  WiFi  ", "Wireless internet")
	require.NoError(t, err)
	assert.Equal(t, "WiFi", amenity.Name)

	got, err := f.Amenities.GetByName(ctx, "WiFi")
	require.NoError(t, err)
	assert.Equal(t, amenity.ID, got.ID)

	newName := "Fast WiFi"
	updated, err := f.Amenities.Update(ctx, amenity.ID, domain.AmenityUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Fast WiFi", updated.Name)

	amenities, err := f.Amenities.List(ctx)
	require.NoError(t, err)
	assert.Len(t, amenities, 1)

	require.NoError(t, f.Amenities.Delete(ctx, amenity.ID))
	assert.ErrorIs(t, f.Amenities.Delete(ctx, amenity.ID), domain.ErrAmenityNotFound)

	_, err = f.Amenities.Get(ctx, amenity.ID)
	assert.ErrorIs(t, err, domain.ErrAmenityNotFound)
}

func TestAmenityServiceCreateInvalidName(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t)

	_, err := f.Amenities.Create(ctx, "   ", "")
	assert.True(t, domain.IsValidation(err))
}
