package googleauth

import (
	"github.com/rs/zerolog/log"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/token"
)

// Allowlist maps a registered email address to a display name. It
// stands in for real identity-provider verification in deployments
// without Google credentials; because it is injected, swapping it for
// the OIDC bridge requires no caller changes.
type Allowlist map[string]string

// DefaultAllowlist returns the fixed registered-email mapping used by
// deployments without Google credentials.
func DefaultAllowlist() Allowlist {
	return Allowlist{
		"patrobloxgaming15@gmail.com": "Keyshaun Sookdar",
		"KSookdar@proton.me":          "Keith Sookdar",
		"favnc@proton.me":             "Pat Williams",
	}
}

// AllowlistBridge is the simulated sign-in variant: an email is
// accepted only if present in the fixed allow-list.
type AllowlistBridge struct {
	allowlist Allowlist
	tokens    *token.Creator
}

func NewAllowlistBridge(allowlist Allowlist, tokenCreator *token.Creator) *AllowlistBridge {
	return &AllowlistBridge{
		allowlist: allowlist,
		tokens:    tokenCreator,
	}
}

// SignIn accepts an email present in the allow-list and issues the same
// session token shape as the OIDC bridge. Unknown emails are rejected
// with a clear not-registered error.
func (b *AllowlistBridge) SignIn(email string) (*Result, error) {
	if email == "" {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "email is required")
	}

	name, ok := b.allowlist[email]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrAuthRejected, "email not registered in student portal")
	}

	signedToken, err := b.tokens.CreateSessionToken(token.Session{
		SubjectID:   email,
		Name:        name,
		Email:       email,
		LoginMethod: token.LoginMethodGoogle,
	})
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "issuing session token: %v", err)
	}

	log.Info().Str("email", email).Msg("allow-list login successful")
	return &Result{
		Token:    signedToken,
		Identity: Identity{Email: email, Name: name},
	}, nil
}
