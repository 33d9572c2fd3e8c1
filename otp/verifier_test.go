package otp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/otp"
	"github.com/waterloosec/student-portal/token"
	"github.com/waterloosec/student-portal/users"
	fakeuserrepo "github.com/waterloosec/student-portal/users/repofake"
)

const (
	testSecret = "test-secret"
	testPhone  = "+18681234567"
)

type fakeAuthConfig struct {
	dev bool
}

func (f fakeAuthConfig) GetJWTSecret() string                 { return testSecret }
func (f fakeAuthConfig) GetSessionTokenExpiry() time.Duration { return 7 * 24 * time.Hour }
func (f fakeAuthConfig) IsDevelopment() bool                  { return f.dev }

type verifierFixture struct {
	userRepo  *fakeuserrepo.FakeUserRepo
	verifier  *otp.Verifier
	inspector *token.Inspector
}

func setupVerifier(t *testing.T, dev bool) *verifierFixture {
	t.Helper()

	userRepo := fakeuserrepo.NewFakeUserRepo(users.User{
		Name:  "Keyshaun Sookdar",
		Phone: testPhone,
		Email: "patrobloxgaming15@gmail.com",
	})

	cfg := fakeAuthConfig{dev: dev}
	signer := token.NewHMACSigner(testSecret)

	return &verifierFixture{
		userRepo:  userRepo,
		verifier:  otp.NewVerifier(userRepo, token.NewCreator(cfg, signer), cfg),
		inspector: token.NewInspector(signer),
	}
}

func TestVerifier_Verify(t *testing.T) {
	t.Run("missing inputs", func(t *testing.T) {
		f := setupVerifier(t, false)

		_, err := f.verifier.Verify("", "123456")
		require.True(t, apperrors.Is(err, apperrors.ErrValidation))

		_, err = f.verifier.Verify(testPhone, "")
		require.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("code length must be exactly six", func(t *testing.T) {
		f := setupVerifier(t, false)

		for _, code := range []string{"12345", "1234567", "1"} {
			_, err := f.verifier.Verify(testPhone, code)
			require.True(t, apperrors.Is(err, apperrors.ErrValidation), "code %q", code)
		}
	})

	t.Run("unregistered phone fails even with the accepted code", func(t *testing.T) {
		f := setupVerifier(t, false)

		_, err := f.verifier.Verify("+15550000000", "123456")
		require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		require.False(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("wrong code rejected outside development", func(t *testing.T) {
		f := setupVerifier(t, false)

		_, err := f.verifier.Verify(testPhone, "654321")
		require.True(t, apperrors.Is(err, apperrors.ErrAuthRejected))
	})

	t.Run("literal code accepted outside development", func(t *testing.T) {
		f := setupVerifier(t, false)

		result, err := f.verifier.Verify(testPhone, "123456")
		require.NoError(t, err)
		require.Equal(t, "Keyshaun Sookdar", result.User.Name)
		require.NotEmpty(t, result.Token)
	})

	t.Run("development mode accepts any six-digit code", func(t *testing.T) {
		f := setupVerifier(t, true)

		result, err := f.verifier.Verify(testPhone, "654321")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
	})

	t.Run("issued token carries identity and seven-day expiry", func(t *testing.T) {
		// The JWT parser checks exp against the wall clock, so the
		// pinned time has to stay near the real present.
		fixedNow := time.Now().Truncate(time.Second)
		token.NowTimeFunc = func() time.Time { return fixedNow }
		t.Cleanup(func() { token.NowTimeFunc = time.Now })

		f := setupVerifier(t, false)
		result, err := f.verifier.Verify(testPhone, "123456")
		require.NoError(t, err)

		introspection, err := f.inspector.Introspect(result.Token)
		require.NoError(t, err)
		require.True(t, introspection.Active)
		require.Equal(t, "patrobloxgaming15@gmail.com", *introspection.Sub)
		require.Equal(t, "Keyshaun Sookdar", introspection.Name)
		require.Equal(t, testPhone, introspection.Phone)
		require.Equal(t, "phone", introspection.LoginMethod)
		require.Equal(t, fixedNow.Add(7*24*time.Hour).Unix(), *introspection.Exp)
	})
}
