package otp

import "context"

// SMSSender delivers a text message to a phone number. Implementations
// make a single attempt; the issuer decides what a failure means.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
