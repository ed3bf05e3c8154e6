package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/idx"
)

type rolesRepo struct {
	q querier
}

const roleColumns = `r.id, r.name, r.description,
	p.read, p.write, p."delete", p.admin,
	r.created_at, r.updated_at`

const roleJoin = `FROM roles r JOIN permissions p ON p.role_id = r.id`

func scanRole(row *sql.Row) (domain.Role, error) {
	var role domain.Role
	err := row.Scan(
		&role.ID, &role.Name, &role.Description,
		&role.Permission.Read, &role.Permission.Write, &role.Permission.Delete, &role.Permission.Admin,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

// CreateRole writes the role row and its permission set. Run it inside a
// transaction so the pair lands atomically.
func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO roles (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		role.ID, role.Name, role.Description, now, now,
	)
	if err != nil {
		return mapConflict(err)
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO permissions (id, role_id, read, write, "delete", admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		idx.New().String(), role.ID,
		role.Permission.Read, role.Permission.Write, role.Permission.Delete, role.Permission.Admin,
		now, now,
	)
	return mapConflict(err)
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+roleColumns+` `+roleJoin+` WHERE r.id = ?`, id)
	return scanRole(row)
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+roleColumns+` `+roleJoin+` WHERE r.name = ?`, name)
	return scanRole(row)
}

func (r *rolesRepo) GetRoleByUserID(ctx context.Context, userID string) (domain.Role, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+roleColumns+` `+roleJoin+`
		JOIN users u ON u.role_id = r.id
		WHERE u.id = ?`, userID)
	return scanRole(row)
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+roleColumns+` `+roleJoin+` ORDER BY r.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		err := rows.Scan(
			&role.ID, &role.Name, &role.Description,
			&role.Permission.Read, &role.Permission.Write, &role.Permission.Delete, &role.Permission.Admin,
			&role.CreatedAt, &role.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// UpdateRole rewrites both the role row and its permission set. Run it
// inside a transaction so the pair lands atomically.
func (r *rolesRepo) UpdateRole(ctx context.Context, role domain.Role) error {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE roles SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		role.Name, role.Description, now, role.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	if err := requireRows(res); err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		UPDATE permissions SET read = ?, write = ?, "delete" = ?, admin = ?, updated_at = ?
		WHERE role_id = ?`,
		role.Permission.Read, role.Permission.Write, role.Permission.Delete, role.Permission.Admin,
		now, role.ID,
	)
	return err
}

func (r *rolesRepo) DeleteRole(ctx context.Context, roleID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, roleID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *rolesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
