package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signToken(t *testing.T, claims Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestParseBearerToken(t *testing.T) {
	req := require.New(t)

	tok, err := ParseBearerToken("Bearer abc")
	req.NoError(err)
	req.Equal("abc", tok)

	tok, err = ParseBearerToken("bearer abc")
	req.NoError(err)
	req.Equal("abc", tok)

	_, err = ParseBearerToken("")
	req.ErrorIs(err, ErrMissingToken)

	_, err = ParseBearerToken("Basic abc")
	req.ErrorIs(err, ErrInvalidToken)
}

func TestParseAndValidateToken(t *testing.T) {
	req := require.New(t)

	claims := Claims{
		UserID: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := signToken(t, claims, jwt.SigningMethodHS256, []byte(secret))

	parsed, err := ParseAndValidateToken(secret, tok)
	req.NoError(err)
	req.Equal("alice", parsed.UserID)

	_, err = ParseAndValidateToken("wrong-secret", tok)
	req.Error(err)

	expired := claims
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err = ParseAndValidateToken(secret, signToken(t, expired, jwt.SigningMethodHS256, []byte(secret)))
	req.Error(err)

	// A valid signature without a user id is still rejected.
	anon := Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	_, err = ParseAndValidateToken(secret, signToken(t, anon, jwt.SigningMethodHS256, []byte(secret)))
	req.ErrorIs(err, ErrInvalidToken)
}
