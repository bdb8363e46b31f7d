package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(c clock.Clock, secret string) *Issuer {
	return NewIssuer(config.Config{AppName: "payables", AuthJWTSecret: secret, TokenTTL: 10 * time.Hour}, c)
}

func TestIssueAndParse(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	issuer := newIssuer(fc, "secret")

	raw, expiresAt, err := issuer.Issue("maria", "analyst")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), expiresAt)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Subject)
	assert.Equal(t, "analyst", claims.Role)
	assert.Equal(t, "payables", claims.Issuer)
}

func TestParseRejectsExpired(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	issuer := newIssuer(fc, "secret")
	raw, _, err := issuer.Issue("maria", "")
	require.NoError(t, err)

	fc.Advance(11 * time.Hour)
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	raw, _, err := newIssuer(fc, "other").Issue("maria", "")
	require.NoError(t, err)

	_, err = newIssuer(fc, "secret").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(fc.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newIssuer(fc, "secret").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = newIssuer(fc, "secret").Parse("  ")
	assert.ErrorIs(t, err, ErrInvalid)
}
