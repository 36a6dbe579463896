package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered            EventType = "user_registered"
	EventEmailConfirmationRequest  EventType = "email_confirmation_requested"
	EventEmailConfirmed            EventType = "email_confirmed"
	EventPasswordResetRequested    EventType = "password_reset_requested"
	EventPasswordResetCompleted    EventType = "password_reset_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ConfirmationEmailPayload carries what the notifier needs to send an
// email-confirmation link.
type ConfirmationEmailPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// PasswordResetEmailPayload carries what the notifier needs to send a
// password-reset link.
type PasswordResetEmailPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// EmailConfirmedPayload marks a completed confirmation.
type EmailConfirmedPayload struct {
	Email string `json:"email"`
}

// PasswordResetCompletedPayload marks a completed reset.
type PasswordResetCompletedPayload struct {
	Email string `json:"email"`
}
