package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
)

const (
	codeLength = 6
	codeMin    = 100000
	codeSpan   = 900000 // codes are uniform over [100000, 999999]
)

// Issuer generates one-time passcodes and attempts SMS delivery.
type Issuer struct {
	sender SMSSender // nil when no provider is configured
}

// NewIssuer creates an OTP issuer. Pass a nil sender when no SMS
// provider credentials are configured.
func NewIssuer(sender SMSSender) *Issuer {
	return &Issuer{sender: sender}
}

// IssueResult reports the generated code and whether the provider
// accepted the message. When Delivered is false the code must be
// returned to the caller so they can self-serve it; exposing the code
// this way is a recognised weakness of the testing fallback.
type IssueResult struct {
	Code      string
	Delivered bool
}

// Issue generates a 6-digit code for the phone number and makes a
// single delivery attempt. Provider errors degrade to the fallback
// path; once a phone number is present the call never hard-fails.
func (i *Issuer) Issue(ctx context.Context, phoneNumber string) (*IssueResult, error) {
	if strings.TrimSpace(phoneNumber) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "phone number is required")
	}

	code := generateCode()
	log.Debug().Str("phone", phoneNumber).Msg("generated OTP")

	if i.sender == nil {
		log.Info().Str("phone", phoneNumber).Msg("no SMS provider configured, returning OTP to caller")
		return &IssueResult{Code: code, Delivered: false}, nil
	}

	body := fmt.Sprintf("Your Student Portal verification code: %s. Valid for 10 minutes.", code)
	if err := i.sender.Send(ctx, phoneNumber, body); err != nil {
		log.Warn().Err(apperrors.Wrapf(apperrors.ErrUpstreamProvider, "%v", err)).
			Str("phone", phoneNumber).
			Msg("SMS delivery failed, falling back to returning OTP")
		return &IssueResult{Code: code, Delivered: false}, nil
	}

	log.Info().Str("phone", phoneNumber).Msg("OTP sent via SMS")
	return &IssueResult{Code: code, Delivered: true}, nil
}

func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; at that point the process has bigger problems.
		panic("otp: entropy source unavailable: " + err.Error())
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin)
}
