package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse standard response for a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RequestEmailRequest asks for a confirmation email resend.
type RequestEmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest starts a password reset carrying the new password.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse wraps plain status messages.
type MessageResponse struct {
	Message string `json:"message"`
}
