// Package auth is the request-facing boundary of authentication: login,
// token verification on each request and the startup admin bootstrap.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/observability"
	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/shared"
	"github.com/agrogest/agrogest/internal/tokens"
)

var (
	// ErrAuthenticationFailed is returned by Login for any rejected credentials.
	ErrAuthenticationFailed = httpx.NewError(httpx.ErrUnauthorized, "invalid credentials")
	// ErrInvalidToken is returned when a bearer token is missing or does not verify.
	ErrInvalidToken = tokens.ErrInvalidToken
)

// Authenticator checks credentials and mints a token.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (accounts.Account, tokens.Token, error)
}

// Verifier decodes and validates a raw token.
type Verifier interface {
	Verify(raw string) (tokens.Claims, error)
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required,max=128"`
	RemoteAddr string `json:"-"`
}

// Gateway composes the credential store and token service.
type Gateway struct {
	accounts Authenticator
	verifier Verifier
	audit    shared.AuditPublisher
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// GatewayOption customises a Gateway.
type GatewayOption func(*Gateway)

// WithAuditPublisher sends login events to p.
func WithAuditPublisher(p shared.AuditPublisher) GatewayOption {
	return func(g *Gateway) {
		if p != nil {
			g.audit = p
		}
	}
}

// WithMetrics records login outcomes and token rejections on m.
func WithMetrics(m *observability.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway constructs a Gateway.
func NewGateway(logger *slog.Logger, accounts Authenticator, verifier Verifier, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gateway{
		accounts: accounts,
		verifier: verifier,
		audit:    shared.NopAuditPublisher{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login authenticates the credentials and returns a session token. Every
// credential rejection is reported as ErrAuthenticationFailed; storage and
// signing failures are returned as internal errors.
func (g *Gateway) Login(ctx context.Context, in LoginInput) (tokens.Token, error) {
	account, tok, err := g.accounts.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			g.metrics.ObserveLogin(observability.LoginRejected)
			g.publish(ctx, shared.EventLoginFailed, "", in.Username, in.RemoteAddr)
			return tokens.Token{}, ErrAuthenticationFailed
		}
		g.metrics.ObserveLogin(observability.LoginErrored)
		return tokens.Token{}, err
	}
	g.metrics.ObserveLogin(observability.LoginSucceeded)
	g.publish(ctx, shared.EventLoginSucceeded, account.ID, account.Username, in.RemoteAddr)
	return tok, nil
}

// Verify decodes raw into the principal it was issued for.
func (g *Gateway) Verify(raw string) (shared.Principal, error) {
	claims, err := g.verifier.Verify(raw)
	if err != nil {
		return shared.Principal{}, ErrInvalidToken
	}
	return shared.Principal{AccountID: claims.AccountID, Username: claims.Username, Role: claims.Role}, nil
}

// RequireAuth rejects requests without a valid token before next runs and
// otherwise attaches the principal to the request context.
func (g *Gateway) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.Verify(ExtractToken(r))
		if err != nil {
			g.metrics.ObserveTokenRejected()
			httpx.RespondError(w, ErrInvalidToken)
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), &principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractToken returns the token from the Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
func ExtractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.ContainsAny(header, " \t") {
		return ""
	}
	return header
}

func (g *Gateway) publish(ctx context.Context, event, accountID, username, remoteAddr string) {
	entityID := accountID
	if entityID == "" {
		entityID = accounts.FoldUsername(username)
	}
	entry := shared.AuditLog{
		ActorID:  accountID,
		Action:   event,
		Entity:   "account",
		EntityID: entityID,
		Meta:     map[string]any{"username": username, "remote_addr": remoteAddr},
		At:       time.Now().UTC(),
	}
	if entry.EntityID == "" {
		return
	}
	if err := g.audit.Publish(context.WithoutCancel(ctx), entry); err != nil {
		g.logger.Warn("publish auth event", slog.String("event", event), slog.Any("error", err))
	}
}
