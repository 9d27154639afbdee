package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlace(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		price      float64
		latitude   float64
		longitude  float64
		ownerID    string
		amenityIDs []string
		wantField  string
	}{
		{
			name:       "valid",
			title:      "Cozy loft",
			price:      120,
			latitude:   40.4168,
			longitude:  -3.7038,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
		},
		{
			name:       "missing title",
			title:      "  ",
			price:      120,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
			wantField:  "title",
		},
		{
			name:       "title too long",
			title:      strings.Repeat("x", 101),
			price:      120,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
			wantField:  "title",
		},
		{
			name:       "zero price",
			title:      "Cozy loft",
			price:      0,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
			wantField:  "price",
		},
		{
			name:       "negative price",
			title:      "Cozy loft",
			price:      -10,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
			wantField:  "price",
		},
		{
			name:       "latitude out of range",
			title:      "Cozy loft",
			price:      120,
			latitude:   90.01,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
			wantField:  "latitude",
		},
		{
			name:       "longitude out of range",
			title:      "Cozy loft",
			price:      120,
			longitude:  -180.5,
			ownerID:    "owner-1",
			amenityIDs: []string{"a1"},
			wantField:  "longitude",
		},
		{
			name:       "missing owner",
			title:      "Cozy loft",
			price:      120,
			ownerID:    "",
			amenityIDs: []string{"a1"},
			wantField:  "owner_id",
		},
		{
			name:       "no amenities",
			title:      "Cozy loft",
			price:      120,
			ownerID:    "owner-1",
			amenityIDs: nil,
			wantField:  "amenities",
		},
		{
			name:       "only blank amenities",
			title:      "Cozy loft",
			price:      120,
			ownerID:    "owner-1",
			amenityIDs: []string{"", "  "},
			wantField:  "amenities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			place, err := NewPlace(tt.title, "A quiet two-bedroom flat.", tt.price, tt.latitude, tt.longitude, tt.ownerID, tt.amenityIDs)

			if tt.wantField != "" {
				require.Error(t, err)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, place.ID)
			assert.Equal(t, tt.ownerID, place.OwnerID)
			assert.False(t, place.CreatedAt.IsZero())
		})
	}
}

func TestNewPlaceDeduplicatesAmenities(t *testing.T) {
	place, err := NewPlace("Cozy loft", "A quiet two-bedroom flat.", 120, 0, 0, "owner-1",
		[]string{"a1", " a2 ", "a1", "", "a3", "a2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a2", "a3"}, place.AmenityIDs)
}

func TestPlaceUpdate(t *testing.T) {
	place, err := NewPlace("Cozy loft", "A quiet two-bedroom flat.", 120, 0, 0, "owner-1", []string{"a1"})
	require.NoError(t, err)

	newTitle := "Sunny loft"
	newPrice := 150.0
	require.NoError(t, place.Update(PlaceUpdate{Title: &newTitle, Price: &newPrice}))

	assert.Equal(t, "Sunny loft", place.Title)
	assert.Equal(t, 150.0, place.Price)
	assert.Equal(t, "owner-1", place.OwnerID)
}

func TestPlaceUpdateInvalidLeavesPlaceUnchanged(t *testing.T) {
	place, err := NewPlace("Cozy loft", "A quiet two-bedroom flat.", 120, 0, 0, "owner-1", []string{"a1"})
	require.NoError(t, err)
	before := *place

	newTitle := "Sunny loft"
	badPrice := 0.0
	err = place.Update(PlaceUpdate{Title: &newTitle, Price: &badPrice})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, before.Title, place.Title)
	assert.Equal(t, before.Price, place.Price)
}

func TestPlaceHasAmenity(t *testing.T) {
	place, err := NewPlace("Cozy loft", "A quiet two-bedroom flat.", 120, 0, 0, "owner-1", []string{"a1", "a2"})
	require.NoError(t, err)

	assert.True(t, place.HasAmenity("a2"))
	assert.False(t, place.HasAmenity("a9"))
}
