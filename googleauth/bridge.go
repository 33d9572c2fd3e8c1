package googleauth

import (
	"context"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/waterloosec/student-portal/internal/config"
	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/token"
)

const googleIssuer = "https://accounts.google.com"

// Identity is the assertion extracted from a verified ID token.
type Identity struct {
	Email string
	Name  string
}

// Result is a completed sign-in: a signed session token plus the
// identity it asserts. Both bridge variants converge on this shape.
type Result struct {
	Token    string
	Identity Identity
}

// Bridge exchanges a Google authorization code for a verified identity
// and issues the portal's own session token.
type Bridge struct {
	config      config.ProviderConfig
	tokens      *token.Creator
	redirectURL string

	// Provider discovery is a network call; resolve it once on first use.
	lock     sync.Mutex
	provider *oidc.Provider
	oauthCfg *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewBridge creates a Google identity bridge. redirectURL must match
// the URI registered with the identity provider.
func NewBridge(cfg config.ProviderConfig, tokenCreator *token.Creator, redirectURL string) *Bridge {
	return &Bridge{
		config:      cfg,
		tokens:      tokenCreator,
		redirectURL: redirectURL,
	}
}

func (b *Bridge) oidcConfig(ctx context.Context) (*oauth2.Config, *oidc.IDTokenVerifier, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.oauthCfg != nil {
		return b.oauthCfg, b.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, nil, apperrors.Wrapf(apperrors.ErrUpstreamProvider, "OIDC discovery failed: %v", err)
	}

	b.provider = provider
	b.oauthCfg = &oauth2.Config{
		ClientID:     b.config.GetGoogleClientID(),
		ClientSecret: b.config.GetGoogleClientSecret(),
		Endpoint:     provider.Endpoint(),
		RedirectURL:  b.redirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	b.verifier = provider.Verifier(&oidc.Config{
		ClientID: b.config.GetGoogleClientID(),
	})

	return b.oauthCfg, b.verifier, nil
}

// Exchange swaps an authorization code for a session. The ID token's
// signature and audience are verified before any session is issued;
// exchange or verification failure is terminal, never a silent login.
func (b *Bridge) Exchange(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "authorization code is required")
	}

	oauthCfg, verifier, err := b.oidcConfig(ctx)
	if err != nil {
		return nil, err
	}

	oauth2Token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrUpstreamProvider, "token exchange failed: %v", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrAuthRejected, "no ID token in provider response")
	}

	// Verify enforces signature, expiry and audience in one pass.
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAuthRejected, "ID token verification failed: %v", err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAuthRejected, "extracting ID token claims: %v", err)
	}

	signedToken, err := b.tokens.CreateSessionToken(token.Session{
		SubjectID:   claims.Email,
		Name:        claims.Name,
		Email:       claims.Email,
		LoginMethod: token.LoginMethodGoogle,
	})
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "issuing session token: %v", err)
	}

	log.Info().Str("email", claims.Email).Msg("google login successful")
	return &Result{
		Token:    signedToken,
		Identity: Identity{Email: claims.Email, Name: claims.Name},
	}, nil
}
