package auth

import (
	"testing"
	"time"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}

	hash, err := v.Hash("beds2025!")
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))
	assert.True(t, v.Verify(hash, "beds2025!"))
	assert.False(t, v.Verify(hash, "wrong"))
}

func TestBcryptVerifierAcceptsLegacyPlaintext(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}
	assert.True(t, v.Verify("admin123", "admin123"))
	assert.False(t, v.Verify("admin123", "admin1234"))
	assert.False(t, v.Verify("", ""))
}

func TestPlainVerifier(t *testing.T) {
	v := NewVerifier("PLAIN")
	stored, err := v.Hash("pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", stored)
	assert.True(t, v.Verify(stored, "pw"))
	assert.False(t, v.Verify(stored, "px"))

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, v.Verify(string(hash), "pw"))
}

func TestNewVerifierDefaultsToBcrypt(t *testing.T) {
	assert.IsType(t, BcryptVerifier{}, NewVerifier(""))
	assert.IsType(t, BcryptVerifier{}, NewVerifier("argon2"))
}

func TestTokenRoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer("secret", time.Hour, clock)

	token, err := issuer.Issue(&models.User{ID: "u1", Username: "kim", Role: models.RoleCustomer, SiteIDs: []string{"a"}})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "kim", claims.Username)

	p := claims.Principal()
	assert.Equal(t, models.RoleCustomer, p.Role)
	assert.Equal(t, []string{"a"}, p.SiteIDs)
}

func TestTokenExpires(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer("secret", time.Hour, clock)

	token, err := issuer.Issue(&models.User{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	a := NewTokenIssuer("one", 0, nil)
	b := NewTokenIssuer("two", 0, nil)

	token, err := a.Issue(&models.User{ID: "u1"})
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err)
	assert.Equal(t, DefaultTokenTTL, a.TTL())
}
