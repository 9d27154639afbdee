package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		email     string
		password  string
		wantField string
	}{
		{
			name:      "valid",
			firstName: "Ada",
			lastName:  "Lovelace",
			email:     "ada@example.com",
			password:  "correct horse",
		},
		{
			name:      "email normalized",
			firstName: "Ada",
			lastName:  "Lovelace",
			email:     "  ADA@Example.COM ",
			password:  "correct horse",
		},
		{
			name:      "missing first name",
			firstName: "   ",
			lastName:  "Lovelace",
			email:     "ada@example.com",
			password:  "correct horse",
			wantField: "first_name",
		},
		{
			name:      "first name too long",
			firstName: strings.Repeat("a", 51),
			lastName:  "Lovelace",
			email:     "ada@example.com",
			password:  "correct horse",
			wantField: "first_name",
		},
		{
			name:      "invalid email",
			firstName: "Ada",
			lastName:  "Lovelace",
			email:     "not-an-email",
			password:  "correct horse",
			wantField: "email",
		},
		{
			name:      "email with display name rejected",
			firstName: "Ada",
			lastName:  "Lovelace",
			email:     "Ada <ada@example.com>",
			password:  "correct horse",
			wantField: "email",
		},
		{
			name:      "short password",
			firstName: "Ada",
			lastName:  "Lovelace",
			email:     "ada@example.com",
			password:  "short",
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.firstName, tt.lastName, tt.email, tt.password, false)

			if tt.wantField != "" {
				require.Error(t, err)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
			assert.Equal(t, "ada@example.com", user.Email)
			assert.False(t, user.IsAdmin)
			assert.False(t, user.CreatedAt.IsZero())

			// The plaintext never survives construction.
			assert.NotEqual(t, tt.password, user.PasswordHash)
			assert.True(t, user.VerifyPassword(tt.password))
			assert.False(t, user.VerifyPassword("wrong password"))
		})
	}
}

func TestUserUpdate(t *testing.T) {
	user, err := NewUser("Ada", "Lovelace", "ada@example.com", "correct horse", false)
	require.NoError(t, err)

	newFirst := "Augusta"
	newEmail := "AUGUSTA@example.com"
	require.NoError(t, user.Update(UserUpdate{FirstName: &newFirst, Email: &newEmail}))

	assert.Equal(t, "Augusta", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, "augusta@example.com", user.Email)
}

func TestUserUpdateInvalidLeavesUserUnchanged(t *testing.T) {
	user, err := NewUser("Ada", "Lovelace", "ada@example.com", "correct horse", false)
	require.NoError(t, err)
	before := *user

	newFirst := "Augusta"
	badEmail := "nope"
	err = user.Update(UserUpdate{FirstName: &newFirst, Email: &badEmail})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, before, *user)
}

func TestUserUpdatePasswordRehashes(t *testing.T) {
	user, err := NewUser("Ada", "Lovelace", "ada@example.com", "correct horse", false)
	require.NoError(t, err)

	newPassword := "battery staple"
	require.NoError(t, user.Update(UserUpdate{Password: &newPassword}))

	assert.True(t, user.VerifyPassword("battery staple"))
	assert.False(t, user.VerifyPassword("correct horse"))

	short := "short"
	err = user.Update(UserUpdate{Password: &short})
	require.Error(t, err)
	assert.True(t, user.VerifyPassword("battery staple"))
}
