package dto

import (
	"time"

	"github.com/spec-kit/contacts-service/internal/domain"
)

// UserResponse is the public view of a principal. It never carries the
// password hash.
type UserResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Confirmed bool        `json:"confirmed"`
	Avatar    *string     `json:"avatar"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Confirmed: user.Confirmed,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}
