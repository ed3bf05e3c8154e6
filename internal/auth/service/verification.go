package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/keystore"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/mail"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/cryptox"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

// ErrInvalidKey covers every bad redemption: unknown, expired, already used
// and wrong-purpose keys are indistinguishable to the caller.
var ErrInvalidKey = errors.New("invalid key")

// Key subjects carry a purpose prefix so a verification key can never be
// redeemed on the reset endpoint or vice versa.
const (
	purposeVerifyEmail   = "verify-email"
	purposePasswordReset = "password-reset"
)

type VerificationService struct {
	Store  store.Store
	Keys   keystore.KeyStore
	Mailer mail.Mailer

	// WebURL is the frontend base the mailed links point at.
	WebURL string

	VerifyTemplateID string
	ResetTemplateID  string
}

// RequestEmailVerification mints a one-time key for the user's address and
// mails the verification link. A mail failure is surfaced but the key stays
// live; re-requesting mints a fresh key instead of extending the old one.
func (s *VerificationService) RequestEmailVerification(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	key := keystore.NewKey()
	if err := s.Keys.Put(ctx, key, subject(purposeVerifyEmail, user.ID), keystore.DefaultKeyTTL); err != nil {
		log.Error("failed to store verification key", slog.Any("error", err))
		return err
	}

	err = s.Mailer.Send(ctx, mail.Message{
		To:         user.Email,
		TemplateID: s.VerifyTemplateID,
		Data: map[string]string{
			"name": user.Name,
			"link": s.WebURL + "/email-verification?key=" + key,
		},
	})
	if err != nil {
		log.Error("failed to send verification mail", slog.Any("error", err))
		return err
	}

	log.Info("email verification requested", slog.String("user_id", user.ID))
	return nil
}

// VerifyEmail redeems a verification key and marks the user verified. The
// key is consumed even when the user row has vanished in the meantime.
func (s *VerificationService) VerifyEmail(ctx context.Context, key string) error {
	log := slogx.FromContext(ctx)

	userID, err := s.redeem(ctx, key, purposeVerifyEmail)
	if err != nil {
		return err
	}

	if err := s.Store.Users().MarkVerified(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidKey
		}
		return err
	}

	log.Info("email verified", slog.String("user_id", userID))
	return nil
}

// RequestPasswordReset mints a one-time reset key for the account behind a
// username or email and mails the reset link. Unknown logins report not
// found; this mirrors the login endpoint rather than hiding existence.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, login string) error {
	log := slogx.FromContext(ctx)

	account, user, err := s.findAccountAndUser(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("password reset for unknown login", slog.String("login", login))
			return ErrAccountNotFound
		}
		return err
	}

	key := keystore.NewKey()
	if err := s.Keys.Put(ctx, key, subject(purposePasswordReset, account.ID), keystore.DefaultKeyTTL); err != nil {
		log.Error("failed to store reset key", slog.Any("error", err))
		return err
	}

	err = s.Mailer.Send(ctx, mail.Message{
		To:         user.Email,
		TemplateID: s.ResetTemplateID,
		Data: map[string]string{
			"name": user.Name,
			"link": s.WebURL + "/reset-password?key=" + key,
		},
	})
	if err != nil {
		log.Error("failed to send reset mail", slog.Any("error", err))
		return err
	}

	log.Info("password reset requested", slog.String("account_id", account.ID))
	return nil
}

// ResetPassword redeems a reset key and replaces the account password.
func (s *VerificationService) ResetPassword(ctx context.Context, key, newPassword string) error {
	log := slogx.FromContext(ctx)

	accountID, err := s.redeem(ctx, key, purposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidKey
		}
		return err
	}

	log.Info("password reset", slog.String("account_id", accountID))
	return nil
}

func (s *VerificationService) redeem(ctx context.Context, key, purpose string) (string, error) {
	subj, err := s.Keys.Redeem(ctx, key)
	if err != nil {
		if errors.Is(err, keystore.ErrKeyNotFound) {
			slogx.FromContext(ctx).Warn("redemption of invalid key", slog.String("purpose", purpose))
			return "", ErrInvalidKey
		}
		return "", err
	}

	gotPurpose, id, ok := strings.Cut(subj, ":")
	if !ok || gotPurpose != purpose {
		// Wrong-purpose keys are consumed and rejected.
		slogx.FromContext(ctx).Warn("redemption with wrong key purpose",
			slog.String("want", purpose),
			slog.String("got", gotPurpose),
		)
		return "", ErrInvalidKey
	}
	return id, nil
}

func (s *VerificationService) findAccountAndUser(ctx context.Context, login string) (account domain.Account, user domain.User, err error) {
	acc, err := s.Store.Accounts().GetAccountByUsername(ctx, login)
	if err == nil {
		u, uerr := s.Store.Users().GetUserByAccountID(ctx, acc.ID)
		return acc, u, uerr
	}
	if !errors.Is(err, store.ErrNotFound) {
		return account, user, err
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, login)
	if err != nil {
		return account, user, err
	}
	acc, err = s.Store.Accounts().GetAccountByID(ctx, u.AccountID)
	return acc, u, err
}

func subject(purpose, id string) string {
	return purpose + ":" + id
}
