package domain

import "time"

// Contact is an address-book entry owned by exactly one user. Every query
// over contacts is scoped by UserID.
type Contact struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Birthday       time.Time
	AdditionalData *string
	UserID         int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
