package store

import (
	"context"
	"errors"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to stop callers from accidentally nesting
// transactions.
type Store interface {
	Accounts() Accounts
	Users() Users
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by app via ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername is used during login.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID string, newHash string) error

	// SetActive flips the is_active flag.
	SetActive(ctx context.Context, accountID string, active bool) error

	// DeleteAccount cascades to the linked user (per schema).
	DeleteAccount(ctx context.Context, accountID string) error

	// IsEmpty returns true if there are no accounts.
	IsEmpty(ctx context.Context) (bool, error)
}

type Users interface {
	// CreateUser inserts a new user linked to an existing account.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByAccountID returns the single user owned by an account.
	GetUserByAccountID(ctx context.Context, accountID string) (domain.User, error)

	// GetUserByEmail supports login and password reset by email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	UpdateName(ctx context.Context, userID string, name string) error
	UpdateEmail(ctx context.Context, userID string, email string) error
	UpdateAvatar(ctx context.Context, userID string, avatar string) error
	UpdateRole(ctx context.Context, userID string, roleID string) error

	// MarkVerified sets is_verified after an email verification key is
	// redeemed.
	MarkVerified(ctx context.Context, userID string) error
}

type Roles interface {
	// CreateRole inserts a role and its permission set in one statement
	// batch. Callers elevate the permission set first.
	CreateRole(ctx context.Context, r domain.Role) error

	// GetRoleByID fetches a role with its permission set.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its unique name (for seeding).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// GetRoleByUserID resolves the role assigned to a user. The permission
	// gate depends on this lookup.
	GetRoleByUserID(ctx context.Context, userID string) (domain.Role, error)

	// ListAll returns all roles in the system.
	ListAll(ctx context.Context) ([]domain.Role, error)

	// UpdateRole rewrites the role's name, description and permission set.
	UpdateRole(ctx context.Context, r domain.Role) error

	// DeleteRole removes a role; fails while users still reference it.
	DeleteRole(ctx context.Context, roleID string) error

	// IsEmpty returns true if there are no roles.
	IsEmpty(ctx context.Context) (bool, error)
}
