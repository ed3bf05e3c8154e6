package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
)

func newAuthFixture(t *testing.T) (*AuthService, store.Store, map[string]domain.Role, *captureMailer) {
	t.Helper()

	s := newTestStore(t)
	roles := seedRoles(t, s)
	mailer := &captureMailer{}

	svc := &AuthService{
		Store:             s,
		Tokens:            newTestTokens(),
		Blobs:             newTestBlobs(t),
		Mailer:            mailer,
		WelcomeTemplateID: "d-welcome",
	}
	return svc, s, roles, mailer
}

func TestAuthServiceCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesAccountUserAndAvatar", func(t *testing.T) {
		svc, s, roles, mailer := newAuthFixture(t)

		user, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Editor"].ID,
		})
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "avatars/"+user.ID+".svg", user.Avatar)

		account, err := s.Accounts().GetAccountByUsername(ctx, "alice")
		require.NoError(t, err)
		require.True(t, account.IsActive)
		require.NotEqual(t, "secret123", account.PasswordHash)

		r, _, err := svc.Blobs.Get(ctx, user.Avatar)
		require.NoError(t, err)
		require.NoError(t, r.Close())

		sent := mailer.sent()
		require.Len(t, sent, 1)
		require.Equal(t, "alice@example.com", sent[0].To)
		require.Equal(t, "d-welcome", sent[0].TemplateID)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		svc, _, roles, _ := newAuthFixture(t)

		in := NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Viewer"].ID,
		}
		_, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)

		in.Email = "other@example.com"
		_, err = svc.CreateUser(ctx, in)
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc, _, roles, _ := newAuthFixture(t)

		in := NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Viewer"].ID,
		}
		_, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)

		in.Username = "alice2"
		_, err = svc.CreateUser(ctx, in)
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture(t)
		_, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "a@example.com",
			Password: "secret123", RoleID: "missing",
		})
		require.ErrorIs(t, err, ErrRoleNotFound)
	})

	t.Run("MailFailureDoesNotFailCreate", func(t *testing.T) {
		svc, s, roles, mailer := newAuthFixture(t)
		mailer.fail = context.DeadlineExceeded

		user, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "a@example.com",
			Password: "secret123", RoleID: roles["Viewer"].ID,
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, domain.User) {
		svc, _, roles, _ := newAuthFixture(t)
		user, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Editor"].ID,
		})
		require.NoError(t, err)
		return svc, user
	}

	t.Run("ByUsername", func(t *testing.T) {
		svc, user := setup(t)

		session, err := svc.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		require.Equal(t, user.ID, session.User.ID)
		require.Equal(t, "Editor", session.Role.Name)

		claims, err := svc.Tokens.Verify(session.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, session.Account.ID, claims.AccountID)
		require.Equal(t, "Editor", claims.Role)
	})

	t.Run("ByEmail", func(t *testing.T) {
		svc, user := setup(t)

		session, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, user.ID, session.User.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Login(ctx, "nobody", "secret123")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("DeactivatedAccount", func(t *testing.T) {
		svc, user := setup(t)
		require.NoError(t, svc.SetAccountActive(ctx, user.AccountID, false))

		// A deactivated account looks exactly like a missing one.
		_, err := svc.Login(ctx, "alice", "secret123")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestAuthServicePasswordAndLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdatePassword", func(t *testing.T) {
		svc, _, roles, _ := newAuthFixture(t)
		user, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Viewer"].ID,
		})
		require.NoError(t, err)

		require.ErrorIs(t, svc.UpdatePassword(ctx, user.AccountID, "wrong", "newpass456"), ErrIncorrectPassword)
		require.NoError(t, svc.UpdatePassword(ctx, user.AccountID, "secret123", "newpass456"))

		_, err = svc.Login(ctx, "alice", "newpass456")
		require.NoError(t, err)
	})

	t.Run("ReactivateRestoresLogin", func(t *testing.T) {
		svc, _, roles, _ := newAuthFixture(t)
		user, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Viewer"].ID,
		})
		require.NoError(t, err)

		require.NoError(t, svc.SetAccountActive(ctx, user.AccountID, false))
		require.NoError(t, svc.SetAccountActive(ctx, user.AccountID, true))

		_, err = svc.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
	})

	t.Run("DeleteAccountRemovesUserAndAvatar", func(t *testing.T) {
		svc, s, roles, _ := newAuthFixture(t)
		user, err := svc.CreateUser(ctx, NewUserInput{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
			Password: "secret123", RoleID: roles["Viewer"].ID,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteAccount(ctx, user.AccountID))

		_, err = s.Users().GetUserByID(ctx, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, _, err = svc.Blobs.Get(ctx, user.Avatar)
		require.Error(t, err)

		require.ErrorIs(t, svc.DeleteAccount(ctx, user.AccountID), ErrAccountNotFound)
	})
}
