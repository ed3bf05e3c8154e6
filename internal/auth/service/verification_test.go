package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/keystore"
)

type verificationFixture struct {
	auth   *AuthService
	verify *VerificationService
	mailer *captureMailer
	user   domain.User
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()
	ctx := context.Background()

	s := newTestStore(t)
	roles := seedRoles(t, s)
	mailer := &captureMailer{}

	auth := &AuthService{Store: s, Tokens: newTestTokens(), Blobs: newTestBlobs(t)}
	user, err := auth.CreateUser(ctx, NewUserInput{
		Username: "alice", Name: "Alice", Email: "alice@example.com",
		Password: "secret123", RoleID: roles["Viewer"].ID,
	})
	require.NoError(t, err)

	keys := keystore.NewMemoryStore(0)
	t.Cleanup(func() { _ = keys.Close() })

	return &verificationFixture{
		auth: auth,
		verify: &VerificationService{
			Store:            s,
			Keys:             keys,
			Mailer:           mailer,
			WebURL:           "https://app.example.com",
			VerifyTemplateID: "d-verify",
			ResetTemplateID:  "d-reset",
		},
		mailer: mailer,
		user:   user,
	}
}

// mailedKey pulls the one-time key out of the last mailed link.
func mailedKey(t *testing.T, mailer *captureMailer) string {
	t.Helper()

	sent := mailer.sent()
	require.NotEmpty(t, sent)

	link := sent[len(sent)-1].Data["link"]
	u, err := url.Parse(link)
	require.NoError(t, err)

	key := u.Query().Get("key")
	require.NotEmpty(t, key)
	return key
}

func TestEmailVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("RequestAndVerify", func(t *testing.T) {
		f := newVerificationFixture(t)

		require.NoError(t, f.verify.RequestEmailVerification(ctx, f.user.ID))

		sent := f.mailer.sent()
		require.Len(t, sent, 1)
		require.Equal(t, "alice@example.com", sent[0].To)
		require.Equal(t, "d-verify", sent[0].TemplateID)
		require.True(t, strings.HasPrefix(sent[0].Data["link"], "https://app.example.com/email-verification?key="))

		require.NoError(t, f.verify.VerifyEmail(ctx, mailedKey(t, f.mailer)))

		got, err := f.auth.Store.Users().GetUserByID(ctx, f.user.ID)
		require.NoError(t, err)
		require.True(t, got.IsVerified)
	})

	t.Run("KeyIsSingleUse", func(t *testing.T) {
		f := newVerificationFixture(t)

		require.NoError(t, f.verify.RequestEmailVerification(ctx, f.user.ID))
		key := mailedKey(t, f.mailer)

		require.NoError(t, f.verify.VerifyEmail(ctx, key))
		require.ErrorIs(t, f.verify.VerifyEmail(ctx, key), ErrInvalidKey)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		f := newVerificationFixture(t)
		require.ErrorIs(t, f.verify.VerifyEmail(ctx, keystore.NewKey()), ErrInvalidKey)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newVerificationFixture(t)
		require.ErrorIs(t, f.verify.RequestEmailVerification(ctx, "missing"), ErrAccountNotFound)
	})

	t.Run("MailFailureKeepsKeyAlive", func(t *testing.T) {
		f := newVerificationFixture(t)
		f.mailer.fail = context.DeadlineExceeded

		require.Error(t, f.verify.RequestEmailVerification(ctx, f.user.ID))
		// The key was issued before the send and is still redeemable, but
		// since the mail never went out nobody knows it. Nothing to assert
		// beyond the error surfacing.
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("RequestAndReset", func(t *testing.T) {
		f := newVerificationFixture(t)

		require.NoError(t, f.verify.RequestPasswordReset(ctx, "alice"))

		sent := f.mailer.sent()
		require.Len(t, sent, 1)
		require.Equal(t, "d-reset", sent[0].TemplateID)
		require.True(t, strings.HasPrefix(sent[0].Data["link"], "https://app.example.com/reset-password?key="))

		require.NoError(t, f.verify.ResetPassword(ctx, mailedKey(t, f.mailer), "newpass456"))

		_, err := f.auth.Login(ctx, "alice", "newpass456")
		require.NoError(t, err)

		_, err = f.auth.Login(ctx, "alice", "secret123")
		require.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("RequestByEmail", func(t *testing.T) {
		f := newVerificationFixture(t)
		require.NoError(t, f.verify.RequestPasswordReset(ctx, "alice@example.com"))
		require.Len(t, f.mailer.sent(), 1)
	})

	t.Run("UnknownLogin", func(t *testing.T) {
		f := newVerificationFixture(t)
		require.ErrorIs(t, f.verify.RequestPasswordReset(ctx, "nobody"), ErrAccountNotFound)
	})

	t.Run("KeyIsSingleUse", func(t *testing.T) {
		f := newVerificationFixture(t)

		require.NoError(t, f.verify.RequestPasswordReset(ctx, "alice"))
		key := mailedKey(t, f.mailer)

		require.NoError(t, f.verify.ResetPassword(ctx, key, "newpass456"))
		require.ErrorIs(t, f.verify.ResetPassword(ctx, key, "other789"), ErrInvalidKey)
	})

	t.Run("PurposesDoNotCross", func(t *testing.T) {
		f := newVerificationFixture(t)

		// A verification key cannot reset a password.
		require.NoError(t, f.verify.RequestEmailVerification(ctx, f.user.ID))
		verifyKey := mailedKey(t, f.mailer)
		require.ErrorIs(t, f.verify.ResetPassword(ctx, verifyKey, "newpass456"), ErrInvalidKey)

		// And a reset key cannot verify an email.
		require.NoError(t, f.verify.RequestPasswordReset(ctx, "alice"))
		resetKey := mailedKey(t, f.mailer)
		require.ErrorIs(t, f.verify.VerifyEmail(ctx, resetKey), ErrInvalidKey)
	})
}
