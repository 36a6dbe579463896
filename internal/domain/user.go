package domain

import "time"

// Role enumerates authorization levels for a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the authenticated principal. Username and email are globally
// unique; HashedPassword never holds a plaintext value.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	Role           Role
	Confirmed      bool
	Avatar         *string
	CreatedAt      time.Time
}
