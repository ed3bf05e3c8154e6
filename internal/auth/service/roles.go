package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/idx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

var (
	ErrRoleExists   = errors.New("role already exists")
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleInUse    = errors.New("role is still assigned to users")
)

type RolesService struct {
	Store store.Store
}

// GetRoleByID fetches a role by its ID.
func (s *RolesService) GetRoleByID(ctx context.Context, roleID string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, ErrRoleNotFound
	}
	return role, err
}

// ListAll returns all roles in the system.
func (s *RolesService) ListAll(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListAll(ctx)
}

// CreateRole creates a role with its permission set. The elevation rule is
// applied to the requested set inside the same transaction as the write, so
// an admin role can never land without the full capability set.
func (s *RolesService) CreateRole(ctx context.Context, name, description string, perm domain.Permission) (domain.Role, error) {
	log := slogx.FromContext(ctx)

	role := domain.Role{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		role.Permission = perm.Elevate()
		return tx.Roles().CreateRole(ctx, role)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("attempted to create duplicate role", slog.String("name", name))
			return domain.Role{}, ErrRoleExists
		}
		log.Error("failed to create role", slog.Any("error", err))
		return domain.Role{}, err
	}

	log.Info("role created",
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return role, nil
}

// UpdateRole rewrites a role's name, description and permission set. The
// elevation rule runs on the incoming set in the write transaction, same as
// on create; existing roles are never retroactively rewritten.
func (s *RolesService) UpdateRole(ctx context.Context, roleID, name, description string, perm domain.Permission) (domain.Role, error) {
	log := slogx.FromContext(ctx)

	role := domain.Role{
		ID:          roleID,
		Name:        name,
		Description: description,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		role.Permission = perm.Elevate()
		return tx.Roles().UpdateRole(ctx, role)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Role{}, ErrRoleNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			log.Warn("attempted to rename role to taken name", slog.String("name", name))
			return domain.Role{}, ErrRoleExists
		}
		log.Error("failed to update role", slog.Any("error", err))
		return domain.Role{}, err
	}

	log.Info("role updated", slog.String("role_id", roleID))
	return role, nil
}

// DeleteRole removes a role. Roles still assigned to users cannot be
// deleted.
func (s *RolesService) DeleteRole(ctx context.Context, roleID string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.Roles().DeleteRole(ctx, roleID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrRoleNotFound
		case strings.Contains(err.Error(), "FOREIGN KEY"):
			log.Warn("attempted to delete role still in use", slog.String("role_id", roleID))
			return ErrRoleInUse
		}
		log.Error("failed to delete role", slog.String("role_id", roleID), slog.Any("error", err))
		return err
	}

	log.Info("role deleted", slog.String("role_id", roleID))
	return nil
}

// PermissionsForUser resolves the capability names granted to a user's
// role. The permission gate runs on this.
func (s *RolesService) PermissionsForUser(ctx context.Context, userID string) ([]string, error) {
	role, err := s.Store.Roles().GetRoleByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return role.Permission.Granted(), nil
}
