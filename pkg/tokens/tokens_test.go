package tokens

import (
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken(42, "seller", secret, time.Hour)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "seller", claims.Role)
}

func TestAccessClaimsFromTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken(42, "buyer", secret, time.Hour)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("another-secret"))
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestAccessClaimsFromTokenExpired(t *testing.T) {
	token, err := NewAccessToken(42, "buyer", secret, -time.Minute)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestAccessClaimsFromTokenGarbage(t *testing.T) {
	_, err := AccessClaimsFromToken("not.a.jwt", secret)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestUserIDNonNumericSubject(t *testing.T) {
	claims := &AccessClaims{}
	claims.Subject = "abc"

	_, err := claims.UserID()
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}
