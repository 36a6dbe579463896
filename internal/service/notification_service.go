package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/contacts-service/internal/events"
	"github.com/spec-kit/contacts-service/internal/mail"
)

// NotificationService turns auth lifecycle events into outbound email. It
// runs entirely off the request path; failures are logged, never surfaced.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	baseURL    string
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, baseURL string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the auth lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleConfirmationEmail)
	n.dispatcher.Subscribe(events.EventEmailConfirmationRequest, n.handleConfirmationEmail)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetEmail)
}

func (n *NotificationService) handleConfirmationEmail(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ConfirmationEmailPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	link := n.baseURL + "api/auth/confirmed_email/" + payload.Token
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Please confirm your email address by following <a href=%q>this link</a>.</p>",
		payload.Username, link)

	if err := n.mailer.Send(mail.Message{
		To:      payload.Email,
		Subject: "Confirm your email",
		Body:    body,
	}); err != nil {
		n.logger.Warn("confirmation email delivery failed",
			zap.String("email", payload.Email), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handlePasswordResetEmail(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetEmailPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	link := n.baseURL + "api/auth/confirm_reset_password/" + payload.Token
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>To finish updating your account information, follow <a href=%q>this link</a>.</p>",
		payload.Username, link)

	if err := n.mailer.Send(mail.Message{
		To:      payload.Email,
		Subject: "Important: Update your account information",
		Body:    body,
	}); err != nil {
		n.logger.Warn("password reset email delivery failed",
			zap.String("email", payload.Email), zap.Error(err))
	}
	return nil
}
