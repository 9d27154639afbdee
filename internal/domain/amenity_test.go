package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmenity(t *testing.T) {
	tests := []struct {
		name        string
		amenityName string
		description string
		wantField   string
	}{
		{name: "valid", amenityName: "WiFi", description: "Wireless internet"},
		{name: "optional description", amenityName: "Pool", description: ""},
		{name: "missing name", amenityName: "  ", wantField: "name"},
		{name: "name too long", amenityName: strings.Repeat("a", 101), wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amenity, err := NewAmenity(tt.amenityName, tt.description)

			if tt.wantField != "" {
				require.Error(t, err)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, amenity.ID)
			assert.Equal(t, tt.amenityName, amenity.Name)
		})
	}
}

func TestAmenityUpdate(t *testing.T) {
	amenity, err := NewAmenity("WiFi", "Wireless internet")
	require.NoError(t, err)

	newName := "  Fast WiFi  "
	require.NoError(t, amenity.Update(AmenityUpdate{Name: &newName}))
	assert.Equal(t, "Fast WiFi", amenity.Name)

	empty := ""
	err = amenity.Update(AmenityUpdate{Name: &empty})
	require.Error(t, err)
	assert.Equal(t, "Fast WiFi", amenity.Name)
}

func TestIsIntegrity(t *testing.T) {
	assert.True(t, IsIntegrity(ErrOwnerNotFound))
	assert.True(t, IsIntegrity(ErrInvalidUserOrPlace))
	assert.True(t, IsIntegrity(&MissingAmenitiesError{IDs: []string{"a1"}}))
	assert.False(t, IsIntegrity(ErrUserNotFound))
	assert.False(t, IsIntegrity(errors.New("boom")))
}

func TestMissingAmenitiesErrorMessage(t *testing.T) {
	err := &MissingAmenitiesError{IDs: []string{"a1", "a2"}}
	assert.Equal(t, "amenities not found for ids: a1, a2", err.Error())
}
