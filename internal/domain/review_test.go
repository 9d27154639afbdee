package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		rating    int
		userID    string
		placeID   string
		wantField string
	}{
		{
			name:    "valid",
			text:    "Great stay, would book again.",
			rating:  5,
			userID:  "u1",
			placeID: "p1",
		},
		{
			name:      "empty text",
			text:      "   ",
			rating:    5,
			userID:    "u1",
			placeID:   "p1",
			wantField: "text",
		},
		{
			name:      "text too short",
			text:      "meh",
			rating:    3,
			userID:    "u1",
			placeID:   "p1",
			wantField: "text",
		},
		{
			name:      "rating below range",
			text:      "Great stay, would book again.",
			rating:    0,
			userID:    "u1",
			placeID:   "p1",
			wantField: "rating",
		},
		{
			name:      "rating above range",
			text:      "Great stay, would book again.",
			rating:    6,
			userID:    "u1",
			placeID:   "p1",
			wantField: "rating",
		},
		{
			name:      "missing user",
			text:      "Great stay, would book again.",
			rating:    4,
			userID:    " ",
			placeID:   "p1",
			wantField: "user_id",
		},
		{
			name:      "missing place",
			text:      "Great stay, would book again.",
			rating:    4,
			userID:    "u1",
			placeID:   "",
			wantField: "place_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := NewReview(tt.text, tt.rating, tt.userID, tt.placeID)

			if tt.wantField != "" {
				require.Error(t, err)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, review.ID)
			assert.Equal(t, tt.rating, review.Rating)
		})
	}
}

func TestReviewUpdate(t *testing.T) {
	review, err := NewReview("Great stay, would book again.", 5, "u1", "p1")
	require.NoError(t, err)

	newRating := 3
	require.NoError(t, review.Update(ReviewUpdate{Rating: &newRating}))
	assert.Equal(t, 3, review.Rating)
	assert.Equal(t, "Great stay, would book again.", review.Text)

	badRating := 9
	err = review.Update(ReviewUpdate{Rating: &badRating})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 3, review.Rating)
}
