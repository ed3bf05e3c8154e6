package service

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/avatar"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/cryptox"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/idx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

// SeedService populates an empty database with the default roles and the
// root admin account. It runs at startup and is a no-op once any role
// exists.
type SeedService struct {
	Store store.Store
	Blobs blob.ObjectStore
}

func (s *SeedService) Apply(ctx context.Context, seed domain.SeedData) error {
	log := slogx.FromContext(ctx)

	empty, err := s.Store.Roles().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	hash, err := cryptox.HashPassword(seed.RootPassword)
	if err != nil {
		return err
	}

	rootAccountID := idx.New().String()
	rootUserID := idx.New().String()

	avatarKey := avatar.ObjectKey(rootUserID)
	if err := s.Blobs.Put(ctx, avatarKey, avatar.ContentType, bytes.NewReader(avatar.Generate(seed.RootUsername))); err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		roleIDs := make(map[string]string, len(seed.Roles))
		for _, def := range seed.Roles {
			role := domain.Role{
				ID:          idx.New().String(),
				Name:        def.Name,
				Description: def.Description,
				Permission:  def.Permission.Elevate(),
			}
			if err := tx.Roles().CreateRole(ctx, role); err != nil {
				return err
			}
			roleIDs[def.Name] = role.ID
		}

		rootRoleID, ok := roleIDs[seed.RootRole]
		if !ok {
			return ErrRoleNotFound
		}

		if err := tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:           rootAccountID,
			Username:     seed.RootUsername,
			PasswordHash: hash,
			IsActive:     true,
		}); err != nil {
			return err
		}

		return tx.Users().CreateUser(ctx, domain.User{
			ID:         rootUserID,
			AccountID:  rootAccountID,
			Name:       seed.RootName,
			Email:      seed.RootEmail,
			Avatar:     avatarKey,
			IsVerified: true,
			RoleID:     rootRoleID,
		})
	})
	if err != nil {
		log.Error("failed to seed database", slog.Any("error", err))
		return err
	}

	log.Info("database seeded",
		slog.Int("roles", len(seed.Roles)),
		slog.String("root_account_id", rootAccountID),
	)
	return nil
}
