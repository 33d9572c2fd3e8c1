package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waterloosec/student-portal/token"
)

type fakeAuthConfig struct {
	expiry time.Duration
}

func (f fakeAuthConfig) GetJWTSecret() string                 { return "test-secret" }
func (f fakeAuthConfig) GetSessionTokenExpiry() time.Duration { return f.expiry }
func (f fakeAuthConfig) IsDevelopment() bool                  { return false }

func TestSessionTokenRoundtrip(t *testing.T) {
	// The JWT parser checks exp against the wall clock, so the pinned
	// time has to stay near the real present.
	fixedNow := time.Now().Truncate(time.Second)
	token.NowTimeFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })

	signer := token.NewHMACSigner("test-secret")
	creator := token.NewCreator(fakeAuthConfig{expiry: 7 * 24 * time.Hour}, signer)
	inspector := token.NewInspector(signer)

	t.Run("claims survive the roundtrip", func(t *testing.T) {
		signed, err := creator.CreateSessionToken(token.Session{
			SubjectID:   "pat@example.com",
			Name:        "Pat Williams",
			Email:       "pat@example.com",
			LoginMethod: token.LoginMethodGoogle,
		})
		require.NoError(t, err)

		introspection, err := inspector.Introspect(signed)
		require.NoError(t, err)
		require.True(t, introspection.Active)
		require.Equal(t, "pat@example.com", *introspection.Sub)
		require.Equal(t, "Pat Williams", introspection.Name)
		require.Equal(t, "pat@example.com", introspection.Email)
		require.Empty(t, introspection.Phone)
		require.Equal(t, "google", introspection.LoginMethod)
		require.Equal(t, fixedNow.Unix(), *introspection.Iat)
		require.Equal(t, fixedNow.Add(7*24*time.Hour).Unix(), *introspection.Exp)
	})

	t.Run("expired token is inactive", func(t *testing.T) {
		shortCreator := token.NewCreator(fakeAuthConfig{expiry: time.Minute}, signer)
		signed, err := shortCreator.CreateSessionToken(token.Session{
			SubjectID:   "pat@example.com",
			Name:        "Pat Williams",
			LoginMethod: token.LoginMethodPhone,
		})
		require.NoError(t, err)

		token.NowTimeFunc = func() time.Time { return fixedNow.Add(2 * time.Minute) }
		t.Cleanup(func() { token.NowTimeFunc = func() time.Time { return fixedNow } })

		introspection, _ := inspector.Introspect(signed)
		require.False(t, introspection.Active)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		otherCreator := token.NewCreator(fakeAuthConfig{expiry: time.Hour}, token.NewHMACSigner("other-secret"))
		signed, err := otherCreator.CreateSessionToken(token.Session{
			SubjectID:   "pat@example.com",
			Name:        "Pat Williams",
			LoginMethod: token.LoginMethodPhone,
		})
		require.NoError(t, err)

		introspection, err := inspector.Introspect(signed)
		require.Error(t, err)
		require.False(t, introspection.Active)
	})

	t.Run("empty token is inactive without error", func(t *testing.T) {
		introspection, err := inspector.Introspect("")
		require.NoError(t, err)
		require.False(t, introspection.Active)
	})
}
