package otp

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/waterloosec/student-portal/internal/config"
)

// TwilioSender sends OTP messages through the Twilio REST API
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

var _ SMSSender = (*TwilioSender)(nil)

// NewTwilioSender creates a sender from the configured Twilio
// credentials. Callers should check HasTwilioCredentials first; an
// unconfigured sender fails on every Send.
func NewTwilioSender(cfg config.ProviderConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.GetTwilioAccountSID(),
		Password: cfg.GetTwilioAuthToken(),
	})
	return &TwilioSender{
		client: client,
		from:   cfg.GetTwilioFromNumber(),
	}
}

// Send makes a single delivery attempt. The twilio-go message API does
// not accept a context; the ctx parameter satisfies the SMSSender
// contract for implementations that do.
func (t *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return errors.Wrap(err, "twilio message create failed")
	}
	return nil
}
