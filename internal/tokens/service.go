// Package tokens issues and verifies HS256-signed session tokens.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

// Issuer is the iss claim carried by every token.
const Issuer = "agrogest"

// ErrInvalidToken is the single failure signal for malformed, forged or
// expired tokens.
var ErrInvalidToken = httpx.NewError(httpx.ErrUnauthorized, "invalid or missing token")

// Subject identifies the account a token is minted for.
type Subject struct {
	AccountID string
	Username  string
	Role      string
}

// Claims is the signed token payload.
type Claims struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Token is a signed token together with its absolute expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Service mints and verifies tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service. The secret must be non-empty and the ttl positive.
func NewService(secret []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: signing secret required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("tokens: ttl must be positive, got %s", ttl)
	}
	s := &Service{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the validity window of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue mints a token for sub valid for the configured window.
func (s *Service) Issue(sub Subject) (Token, error) {
	if sub.Username == "" || sub.Role == "" {
		return Token{}, errors.New("tokens: subject requires username and role")
	}
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)
	claims := Claims{
		AccountID: sub.AccountID,
		Username:  sub.Username,
		Role:      sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   sub.AccountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("tokens: sign: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Verify checks signature, algorithm, issuer and expiry of raw and returns
// its claims. Every failure is reported as ErrInvalidToken.
func (s *Service) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Username == "" || claims.Role == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
