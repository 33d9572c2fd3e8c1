package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/waterloosec/student-portal/internal/config"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// LoginMethod records which flow produced a session token
type LoginMethod string

const (
	LoginMethodPhone  LoginMethod = "phone"
	LoginMethodGoogle LoginMethod = "google"
)

// Session is the verified identity a token asserts
type Session struct {
	SubjectID   string
	Name        string
	Phone       string
	Email       string
	LoginMethod LoginMethod
}

// Creator handles session token creation
type Creator struct {
	config config.AuthConfig
	signer Signer
}

// NewCreator creates a new session token creator
func NewCreator(cfg config.AuthConfig, signer Signer) *Creator {
	return &Creator{
		config: cfg,
		signer: signer,
	}
}

// CreateSessionToken creates a signed, expiring bearer credential for a
// verified identity. Validity is determined solely by signature and
// expiry; there is no server-side revocation list.
func (c *Creator) CreateSessionToken(session Session) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":          session.SubjectID,
		"name":         session.Name,
		"login_method": string(session.LoginMethod),
		"iat":          now.Unix(),
		"exp":          now.Add(c.config.GetSessionTokenExpiry()).Unix(),
		"jti":          uuid.New().String(),
	}

	if session.Phone != "" {
		claims["phone"] = session.Phone
	}
	if session.Email != "" {
		claims["email"] = session.Email
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signedToken, nil
}
