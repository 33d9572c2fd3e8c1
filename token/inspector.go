package token

import (
	"errors"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Introspection represents the metadata of a session token. The 'active'
// field indicates the state of the token - if it's false, other fields
// may not be populated.
type Introspection struct {
	Active      bool    `json:"active"`
	Sub         *string `json:"sub,omitempty"`
	Name        string  `json:"name,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	LoginMethod string  `json:"login_method,omitempty"`
	Iat         *int64  `json:"iat,omitempty"`
	Exp         *int64  `json:"exp,omitempty"`
}

// Inspector handles session token validation
type Inspector struct {
	signer Signer
}

// NewInspector creates a new session token inspector
func NewInspector(signer Signer) *Inspector {
	return &Inspector{signer: signer}
}

// Introspect validates and extracts information from a session token
func (i *Inspector) Introspect(rawToken string) (*Introspection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &Introspection{Active: false}, nil
	}

	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey)
	if err != nil || !token.Valid {
		return &Introspection{Active: false}, err
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return &Introspection{Active: false}, errors.New("error extracting claims from token")
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	phone, _ := claims["phone"].(string)
	email, _ := claims["email"].(string)
	loginMethod, _ := claims["login_method"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	iatInt := int64(iat)
	expInt := int64(exp)

	active := NowTimeFunc().Unix() <= expInt

	return &Introspection{
		Active:      active,
		Sub:         &sub,
		Name:        name,
		Phone:       phone,
		Email:       email,
		LoginMethod: loginMethod,
		Iat:         &iatInt,
		Exp:         &expInt,
	}, nil
}
