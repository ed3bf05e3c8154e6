package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/avatar"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	Store store.Store
	Blobs blob.ObjectStore
}

// Profile is a user joined with its account and role, the shape the read
// endpoints return.
type Profile struct {
	User     domain.User
	Username string
	IsActive bool
	Role     domain.Role
}

// GetProfile fetches a user with its account and role.
func (s *UserService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, user.AccountID)
	if err != nil {
		return Profile{}, err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		User:     user,
		Username: account.Username,
		IsActive: account.IsActive,
		Role:     role,
	}, nil
}

// ListProfiles returns every user with account and role attached.
func (s *UserService) ListProfiles(ctx context.Context) ([]Profile, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(users))
	for _, user := range users {
		account, err := s.Store.Accounts().GetAccountByID(ctx, user.AccountID)
		if err != nil {
			return nil, err
		}
		role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, Profile{
			User:     user,
			Username: account.Username,
			IsActive: account.IsActive,
			Role:     role,
		})
	}
	return profiles, nil
}

// UpdateName changes a user's display name.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) error {
	err := s.Store.Users().UpdateName(ctx, userID, name)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// UpdateEmail changes a user's email. The store clears the verified flag;
// the new address has to go through verification again.
func (s *UserService) UpdateEmail(ctx context.Context, userID, email string) error {
	err := s.Store.Users().UpdateEmail(ctx, userID, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrUserExists
	}
	return err
}

// UpdateRole reassigns a user to another role. Takes effect on the next
// permission lookup; issued tokens carry the stale role name until expiry.
func (s *UserService) UpdateRole(ctx context.Context, userID, roleID string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	err := s.Store.Users().UpdateRole(ctx, userID, roleID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err == nil {
		log.Info("user role changed",
			slog.String("user_id", userID),
			slog.String("role_id", roleID),
		)
	}
	return err
}

// RegenerateAvatar rebuilds the user's generated avatar from the current
// account username and stores it under the user's avatar key.
func (s *UserService) RegenerateAvatar(ctx context.Context, userID string) (string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, user.AccountID)
	if err != nil {
		return "", err
	}

	key := avatar.ObjectKey(user.ID)
	if err := s.Blobs.Put(ctx, key, avatar.ContentType, bytes.NewReader(avatar.Generate(account.Username))); err != nil {
		log.Error("failed to store avatar", slog.Any("error", err))
		return "", err
	}

	if user.Avatar != key {
		if err := s.Store.Users().UpdateAvatar(ctx, userID, key); err != nil {
			return "", err
		}
	}

	log.Info("avatar regenerated", slog.String("user_id", userID))
	return key, nil
}
