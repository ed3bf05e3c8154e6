package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, account_id, name, email, avatar, is_verified, role_id, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.AccountID, &u.Name, &u.Email, &u.Avatar, &u.IsVerified, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, account_id, name, email, avatar, is_verified, role_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.AccountID, u.Name, u.Email, u.Avatar, u.IsVerified, u.RoleID, now, now,
	)
	return mapConflict(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByAccountID(ctx context.Context, accountID string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE account_id = ?`, accountID)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.AccountID, &u.Name, &u.Email, &u.Avatar, &u.IsVerified, &u.RoleID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateName(ctx context.Context, userID string, name string) error {
	return r.exec(ctx, `
		UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), userID,
	)
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID string, email string) error {
	// A changed address has to be verified again.
	return r.exec(ctx, `
		UPDATE users SET email = ?, is_verified = 0, updated_at = ? WHERE id = ?`,
		email, time.Now().UTC(), userID,
	)
}

func (r *usersRepo) UpdateAvatar(ctx context.Context, userID string, avatar string) error {
	return r.exec(ctx, `
		UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?`,
		avatar, time.Now().UTC(), userID,
	)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, roleID string) error {
	return r.exec(ctx, `
		UPDATE users SET role_id = ?, updated_at = ? WHERE id = ?`,
		roleID, time.Now().UTC(), userID,
	)
}

func (r *usersRepo) MarkVerified(ctx context.Context, userID string) error {
	return r.exec(ctx, `
		UPDATE users SET is_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID,
	)
}

func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapConflict(err)
	}
	return requireRows(res)
}
