package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

var testIdentity = Identity{UserID: 42, Email: "aspirant@example.com", Role: RoleStudent}

func TestHashPassword(t *testing.T) {
	t.Run("hash differs from plain text", func(t *testing.T) {
		hashed, err := HashPassword("mySecurePassword123")
		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, "mySecurePassword123", hashed)
	})

	t.Run("salted hashes differ", func(t *testing.T) {
		hash1, _ := HashPassword("samePassword")
		hash2, _ := HashPassword("samePassword")
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, _ := HashPassword("correctPassword")

	assert.True(t, CheckPassword(hashed, "correctPassword"))
	assert.False(t, CheckPassword(hashed, "wrongPassword"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestIssueTokens(t *testing.T) {
	t.Run("both tokens carry the identity", func(t *testing.T) {
		pair, err := IssueTokens(testIdentity, testSecret)
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		assert.Equal(t, int(AccessTokenTTL.Seconds()), pair.ExpiresIn)

		access, err := ValidateToken(pair.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 42, access.UserID)
		assert.Equal(t, "aspirant@example.com", access.Email)
		assert.Equal(t, RoleStudent, access.Role)
		assert.Equal(t, tokenTypeAccess, access.TokenType)

		refresh, err := ValidateToken(pair.RefreshToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, tokenTypeRefresh, refresh.TokenType)

		diff := refresh.ExpiresAt.Time.Sub(time.Now().Add(RefreshTokenTTL)).Abs()
		assert.Less(t, diff, 2*time.Second)
	})

	t.Run("empty secret", func(t *testing.T) {
		pair, err := IssueTokens(testIdentity, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
		assert.Nil(t, pair)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		pair, err := IssueTokens(testIdentity, testSecret)
		require.NoError(t, err)

		_, err = ValidateToken(pair.AccessToken, "other-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := sign(testIdentity, tokenTypeAccess, testSecret, time.Minute, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = ValidateToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := &Claims{
			UserID:    1,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateToken(token, testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := ValidateToken("whatever", "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})
}

func TestRefresh(t *testing.T) {
	pair, err := IssueTokens(testIdentity, testSecret)
	require.NoError(t, err)

	t.Run("refresh token yields new access token", func(t *testing.T) {
		access, claims, err := Refresh(pair.RefreshToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID)

		parsed, err := ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, tokenTypeAccess, parsed.TokenType)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		_, _, err := Refresh(pair.AccessToken, testSecret)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}
