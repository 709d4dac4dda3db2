package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	tests := []struct {
		name   string
		userID string
		email  string
	}{
		{
			name:   "regular user",
			userID: "1037126548",
			email:  "email@gmail.com",
		},
		{
			name:   "another user",
			userID: "1038944351",
			email:  "carlos@gmail.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
		})
	}
}

func TestJWTMaker_ParseToken_Invalid(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	t.Run("expired token", func(t *testing.T) {
		expiredMaker := NewJWTMaker("test_secret_key_1234567890", -time.Minute)
		token, err := expiredMaker.GenerateToken("1037126548", "email@gmail.com")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherMaker := NewJWTMaker("another_secret_key", 15*time.Minute)
		token, err := otherMaker.GenerateToken("1037126548", "email@gmail.com")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := maker.ParseToken("not-a-token")
		assert.Error(t, err)
	})
}
