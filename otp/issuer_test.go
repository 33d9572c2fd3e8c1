package otp_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/otp"
)

type fakeSender struct {
	err   error
	calls int
	to    string
	body  string
}

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	f.calls++
	f.to = to
	f.body = body
	return f.err
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestIssuer_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("missing phone number", func(t *testing.T) {
		issuer := otp.NewIssuer(nil)

		for _, phone := range []string{"", "   "} {
			result, err := issuer.Issue(ctx, phone)
			require.Nil(t, result)
			require.True(t, apperrors.Is(err, apperrors.ErrValidation))
		}
	})

	t.Run("no provider configured returns the code", func(t *testing.T) {
		issuer := otp.NewIssuer(nil)

		result, err := issuer.Issue(ctx, "+18681234567")
		require.NoError(t, err)
		require.False(t, result.Delivered)
		require.Regexp(t, sixDigits, result.Code)
	})

	t.Run("provider failure falls back to returning the code", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("twilio unreachable")}
		issuer := otp.NewIssuer(sender)

		result, err := issuer.Issue(ctx, "+18681234567")
		require.NoError(t, err)
		require.False(t, result.Delivered)
		require.Regexp(t, sixDigits, result.Code)
		require.Equal(t, 1, sender.calls, "exactly one delivery attempt")
	})

	t.Run("successful delivery suppresses the code path", func(t *testing.T) {
		sender := &fakeSender{}
		issuer := otp.NewIssuer(sender)

		result, err := issuer.Issue(ctx, "+18681234567")
		require.NoError(t, err)
		require.True(t, result.Delivered)
		require.Regexp(t, sixDigits, result.Code)
		require.Equal(t, "+18681234567", sender.to)
		require.Contains(t, sender.body, result.Code)
	})

	t.Run("codes stay within the six-digit range", func(t *testing.T) {
		issuer := otp.NewIssuer(nil)
		for i := 0; i < 100; i++ {
			result, err := issuer.Issue(ctx, "+18681234567")
			require.NoError(t, err)
			require.Regexp(t, sixDigits, result.Code)
			require.NotEqual(t, byte('0'), result.Code[0], "codes start at 100000")
		}
	})
}
