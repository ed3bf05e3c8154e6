package domain

import "time"

// Account is the credential record. The profile fields live on the linked
// User; an account owns exactly one user.
type Account struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
