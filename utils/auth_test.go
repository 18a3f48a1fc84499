package utils

import (
	"insta-marketplace/errs"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	for _, role := range []string{"customer", "seller"} {
		t.Run(role, func(t *testing.T) {
			token, err := tokens.Issue("64b7f0c2a1b2c3d4e5f60718", role)
			require.NoError(t, err)

			claims, err := tokens.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.ID)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, int64(TokenTTL.Seconds()), claims.ExpiresAt-claims.IssuedAt)
		})
	}
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	issuedAt := time.Now().Add(-TokenTTL - time.Minute)
	token, err := NewTokenService("test-secret").WithClock(func() time.Time { return issuedAt }).Issue("abc", "seller")
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(token)
	assert.ErrorIs(t, err, errs.ErrExpiredToken)
}

func TestTokenStillValidJustBeforeExpiry(t *testing.T) {
	issuedAt := time.Now().Add(-TokenTTL + time.Minute)
	token, err := NewTokenService("test-secret").WithClock(func() time.Time { return issuedAt }).Issue("abc", "seller")
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(token)
	assert.NoError(t, err)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenService("other-secret").Issue("abc", "seller")
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(token)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestTokenRejectsGarbageAndNone(t *testing.T) {
	tokens := NewTokenService("test-secret")

	_, err := tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		ID:             "abc",
		Role:           "seller",
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestTokenRequiresSubjectAndRole(t *testing.T) {
	tokens := NewTokenService("test-secret")
	token, err := tokens.Issue("", "seller")
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}

func TestHashPasswordRejectsOverlongPassword(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, errs.ErrValidation)

	hash, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, strings.Repeat("a", MaxPasswordBytes)))
}
