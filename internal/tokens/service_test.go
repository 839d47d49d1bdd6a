package tokens_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/tokens"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T, c *clock) *tokens.Service {
	t.Helper()
	svc, err := tokens.NewService(secret, 24*time.Hour, tokens.WithClock(c.Now))
	require.NoError(t, err)
	return svc
}

func TestIssueThenVerify(t *testing.T) {
	c := &clock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	svc := newService(t, c)

	tok, err := svc.Issue(tokens.Subject{AccountID: "a-1", Username: "admin", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, c.now.Add(24*time.Hour), tok.ExpiresAt)

	c.now = c.now.Add(23*time.Hour + 59*time.Minute)
	claims, err := svc.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "a-1", claims.AccountID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, tokens.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsExpired(t *testing.T) {
	c := &clock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	svc := newService(t, c)

	tok, err := svc.Issue(tokens.Subject{AccountID: "a-1", Username: "viewer", Role: "viewer"})
	require.NoError(t, err)

	c.now = tok.ExpiresAt
	_, err = svc.Verify(tok.Value)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	c.now = tok.ExpiresAt.Add(time.Hour)
	_, err = svc.Verify(tok.Value)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	c := &clock{now: time.Now()}
	svc := newService(t, c)

	tok, err := svc.Issue(tokens.Subject{AccountID: "a-1", Username: "viewer", Role: "viewer"})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	c := &clock{now: time.Now()}
	svc := newService(t, c)

	tok, err := svc.Issue(tokens.Subject{AccountID: "a-1", Username: "viewer", Role: "viewer"})
	require.NoError(t, err)

	forged, err := tokens.NewService([]byte("another-secret"), time.Hour)
	require.NoError(t, err)
	other, err := forged.Issue(tokens.Subject{AccountID: "a-1", Username: "viewer", Role: "admin"})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	otherParts := strings.Split(other.Value, ".")
	spliced := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = svc.Verify(spliced)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)
	_, err = svc.Verify(other.Value)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	c := &clock{now: time.Now()}
	svc := newService(t, c)

	claims := tokens.Claims{
		Username: "admin",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokens.Issuer,
			ExpiresAt: jwt.NewNumericDate(c.now.Add(time.Hour)),
		},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newService(t, &clock{now: time.Now()})
	for _, raw := range []string{"", "abc", "a.b.c", "Bearer x"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, tokens.ErrInvalidToken, raw)
	}
}

func TestNewServiceValidatesArguments(t *testing.T) {
	_, err := tokens.NewService(nil, time.Hour)
	require.Error(t, err)
	_, err = tokens.NewService(secret, 0)
	require.Error(t, err)
}
