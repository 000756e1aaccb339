package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, UserClaims{
		UserID: "u-42",
		Email:  "asha@campus.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	claims, err := InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.SubjectID())
	assert.Equal(t, "asha@campus.edu", claims.Email)
	assert.False(t, claims.Expired(now))
	assert.True(t, claims.Expired(now.Add(2*time.Hour)))

	_, err = CheckToken(token, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestInspectToken_SubjectFallback(t *testing.T) {
	token := signToken(t, UserClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-7"}})

	claims, err := CheckToken(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "u-7", claims.SubjectID())
	assert.False(t, claims.Expired(time.Now().Add(24*365*time.Hour)))
}

func TestInspectToken_Invalid(t *testing.T) {
	_, err := InspectToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = InspectToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVault_RoundTrip(t *testing.T) {
	v := NewVault("correct horse")
	require.True(t, v.Enabled())

	sealed, err := v.Seal("bearer-token-value")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "bearer-token-value")

	plain, err := v.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "bearer-token-value", plain)

	_, err = NewVault("wrong").Open(sealed)
	assert.ErrorIs(t, err, ErrSealedValue)

	_, err = v.Open("!!not base64")
	assert.ErrorIs(t, err, ErrSealedValue)
}

func TestVault_Disabled(t *testing.T) {
	v := NewVault("")
	assert.False(t, v.Enabled())

	sealed, err := v.Seal("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", sealed)

	opened, err := v.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "plain", opened)
}
