package domain

import "time"

type User struct {
	ID         string
	AccountID  string // Foreign key to accounts table (one user per account)
	Name       string
	Email      string
	Avatar     string // Object key of the generated avatar
	IsVerified bool
	RoleID     string // Foreign key to roles table
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
