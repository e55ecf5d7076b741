package domain

import "time"

// User represents an authenticated user of the system.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the resolved caller of a protected request. It is produced by
// the auth gate and passed explicitly into every owner-scoped operation.
type Identity struct {
	UserID   string
	Username string
}
