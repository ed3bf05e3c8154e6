package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/avatar"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/mail"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/cryptox"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/idx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUserExists        = errors.New("username or email already exists")
)

type AuthService struct {
	Store  store.Store
	Tokens *jwtx.TokenService
	Blobs  blob.ObjectStore
	Mailer mail.Mailer

	// WelcomeTemplateID selects the mail template sent after create-user.
	// Empty disables the welcome mail.
	WelcomeTemplateID string
}

// Session is the outcome of a successful login.
type Session struct {
	Token   string
	Account domain.Account
	User    domain.User
	Role    domain.Role
}

// Login authenticates a username-or-email plus password pair and issues a
// long-lived session token. Unknown and deactivated accounts are both
// reported as not found; only a known active account with a wrong password
// gets the password error.
func (s *AuthService) Login(ctx context.Context, login, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	account, err := s.findAccount(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login for unknown account", slog.String("login", login))
			return Session{}, ErrAccountNotFound
		}
		log.Error("failed to look up account", slog.Any("error", err))
		return Session{}, err
	}
	if !account.IsActive {
		log.Warn("login for deactivated account", slog.String("account_id", account.ID))
		return Session{}, ErrAccountNotFound
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		log.Warn("login with wrong password", slog.String("account_id", account.ID))
		return Session{}, ErrIncorrectPassword
	}

	user, err := s.Store.Users().GetUserByAccountID(ctx, account.ID)
	if err != nil {
		log.Error("account has no user record", slog.String("account_id", account.ID), slog.Any("error", err))
		return Session{}, err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		log.Error("user references missing role", slog.String("user_id", user.ID), slog.Any("error", err))
		return Session{}, err
	}

	token, err := s.Tokens.Issue(jwtx.Identity{
		UserID:    user.ID,
		Username:  account.Username,
		AccountID: account.ID,
		Role:      role.Name,
	}, jwtx.LoginSessionTTL)
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("login succeeded",
		slog.String("account_id", account.ID),
		slog.String("user_id", user.ID),
		slog.String("role", role.Name),
	)
	return Session{Token: token, Account: account, User: user, Role: role}, nil
}

// findAccount resolves a login that may be either a username or the email
// of the linked user.
func (s *AuthService) findAccount(ctx context.Context, login string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByUsername(ctx, login)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, login)
	if err != nil {
		return domain.Account{}, err
	}
	return s.Store.Accounts().GetAccountByID(ctx, user.AccountID)
}

// NewUserInput carries the fields an admin supplies at create-user.
type NewUserInput struct {
	Username string
	Name     string
	Email    string
	Password string
	RoleID   string
}

// CreateUser provisions an account with its user profile. The default
// avatar is generated from the username and stored before the database
// write; duplicate usernames or emails surface as one conflict error.
func (s *AuthService) CreateUser(ctx context.Context, in NewUserInput) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Roles().GetRoleByID(ctx, in.RoleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrRoleNotFound
		}
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		IsActive:     true,
	}
	user := domain.User{
		ID:        idx.New().String(),
		AccountID: account.ID,
		Name:      in.Name,
		Email:     in.Email,
		RoleID:    in.RoleID,
	}

	user.Avatar = avatar.ObjectKey(user.ID)
	if err := s.Blobs.Put(ctx, user.Avatar, avatar.ContentType, bytes.NewReader(avatar.Generate(in.Username))); err != nil {
		log.Error("failed to store avatar", slog.Any("error", err))
		return domain.User{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("create-user conflict",
				slog.String("username", in.Username),
				slog.String("email", in.Email),
			)
			return domain.User{}, ErrUserExists
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	if s.Mailer != nil && s.WelcomeTemplateID != "" {
		err := s.Mailer.Send(ctx, mail.Message{
			To:         in.Email,
			TemplateID: s.WelcomeTemplateID,
			Data: map[string]string{
				"name":     in.Name,
				"username": in.Username,
			},
		})
		if err != nil {
			// The user exists either way.
			log.Error("failed to send welcome mail", slog.Any("error", err))
		}
	}

	log.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("account_id", account.ID),
	)
	return user, nil
}

// UpdatePassword changes a password after verifying the old one.
func (s *AuthService) UpdatePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(oldPassword, account.PasswordHash); err != nil {
		log.Warn("update-password with wrong current password", slog.String("account_id", accountID))
		return ErrIncorrectPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return err
	}

	log.Info("password updated", slog.String("account_id", accountID))
	return nil
}

// SetAccountActive activates or deactivates an account. A deactivated
// account cannot log in; existing tokens keep working until they expire.
func (s *AuthService) SetAccountActive(ctx context.Context, accountID string, active bool) error {
	err := s.Store.Accounts().SetActive(ctx, accountID, active)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err == nil {
		slogx.FromContext(ctx).Info("account active flag changed",
			slog.String("account_id", accountID),
			slog.Bool("active", active),
		)
	}
	return err
}

// DeleteAccount removes an account, its user (via cascade) and the stored
// avatar.
func (s *AuthService) DeleteAccount(ctx context.Context, accountID string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByAccountID(ctx, accountID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := s.Store.Accounts().DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if user.Avatar != "" {
		if err := s.Blobs.Delete(ctx, user.Avatar); err != nil {
			log.Warn("failed to delete avatar", slog.String("key", user.Avatar), slog.Any("error", err))
		}
	}

	log.Info("account deleted", slog.String("account_id", accountID))
	return nil
}
