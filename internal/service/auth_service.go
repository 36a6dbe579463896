package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/contacts-service/internal/auth"
	"github.com/spec-kit/contacts-service/internal/config"
	"github.com/spec-kit/contacts-service/internal/domain"
	"github.com/spec-kit/contacts-service/internal/events"
	"github.com/spec-kit/contacts-service/internal/repository"
	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

// Messages returned by the confirmation and reset flows. The generic ones
// deliberately do not reveal whether an account exists.
const (
	MsgEmailConfirmed        = "Email address confirmed"
	MsgEmailAlreadyDone      = "Email address already confirmed"
	MsgCheckEmailConfirm     = "Check your email for confirmation link"
	MsgCheckEmailReset       = "Check your email for password reset link"
	MsgPasswordChanged       = "Password successfully changed"
	msgBadCredentials        = "incorrect username or password"
	msgEmailNotConfirmed     = "email not confirmed"
	msgVerificationError     = "verification error"
	msgInvalidOrExpiredToken = "invalid or expired token"
)

// AuthService coordinates the registration, login, email confirmation, and
// password reset sequences.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	cache      auth.PrincipalCache
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Cache      auth.PrincipalCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.ConfirmTokenTTL()),
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     deps.Logger,
	}
}

// Register creates an unconfirmed account and queues a confirmation email.
// The returned user never carries a usable plaintext password.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("user with this username already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	avatar := GravatarURL(email)
	user := &domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		Role:           domain.RoleUser,
		Confirmed:      false,
		Avatar:         &avatar,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost the race against a concurrent registration: the store's
		// uniqueness constraint is the arbiter, not the checks above.
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("user with this email or username already exists", nil)
		}
		return nil, err
	}

	s.publishConfirmationEmail(ctx, events.EventUserRegistered, user)
	return user, nil
}

// Login authenticates by username and issues an access token. The
// existence+password check runs before the confirmed check so the two 401
// messages stay distinct in exactly the documented way.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized(msgBadCredentials)
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.HashedPassword, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized(msgBadCredentials)
	}
	if !user.Confirmed {
		return "", time.Time{}, apperrors.NewUnauthorized(msgEmailNotConfirmed)
	}
	return s.tokens.IssueAccessToken(user.Username)
}

// ConfirmEmail flips the confirmed flag once, driven by a valid
// email-confirmation token. Re-confirming is an idempotent no-op.
func (s *AuthService) ConfirmEmail(ctx context.Context, tokenStr string) (string, error) {
	claims, err := s.tokens.Parse(tokenStr, auth.PurposeEmailConfirm)
	if err != nil {
		return "", apperrors.NewValidationError(msgVerificationError, nil)
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewValidationError(msgVerificationError, nil)
		}
		return "", err
	}
	if user.Confirmed {
		return MsgEmailAlreadyDone, nil
	}

	if err := s.users.ConfirmEmail(ctx, user.Email); err != nil {
		return "", err
	}
	s.cache.Invalidate(ctx, user.Username)
	s.dispatcher.Publish(ctx, newEvent(events.EventEmailConfirmed, events.EmailConfirmedPayload{Email: user.Email}))
	return MsgEmailConfirmed, nil
}

// RequestEmailConfirmation re-sends the confirmation email. Unknown
// addresses get the same generic response so the endpoint cannot be used to
// probe for accounts.
func (s *AuthService) RequestEmailConfirmation(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MsgCheckEmailConfirm, nil
		}
		return "", err
	}
	if user.Confirmed {
		return MsgEmailAlreadyDone, nil
	}

	s.publishConfirmationEmail(ctx, events.EventEmailConfirmationRequest, user)
	return MsgCheckEmailConfirm, nil
}

// RequestPasswordReset pre-hashes the replacement password, embeds the hash
// in a reset token bound to the email, and queues the reset email. Unknown
// addresses get the generic response.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, newPassword string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MsgCheckEmailReset, nil
		}
		return "", err
	}
	if !user.Confirmed {
		return "", apperrors.NewValidationError(msgEmailNotConfirmed, nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.IssueResetToken(user.Email, hash)
	if err != nil {
		return "", err
	}

	s.dispatcher.Publish(ctx, newEvent(events.EventPasswordResetRequested, events.PasswordResetEmailPayload{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
	}))
	return MsgCheckEmailReset, nil
}

// ConfirmPasswordReset overwrites the stored hash with the one embedded in a
// valid reset token. A token missing either the email subject or the hash
// claim is rejected outright and the store stays untouched.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr string) (string, error) {
	claims, err := s.tokens.Parse(tokenStr, auth.PurposePasswordReset)
	if err != nil {
		return "", apperrors.NewValidationError(msgInvalidOrExpiredToken, nil)
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("user", nil)
		}
		return "", err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, claims.PasswordHash); err != nil {
		return "", err
	}
	s.cache.Invalidate(ctx, user.Username)
	s.dispatcher.Publish(ctx, newEvent(events.EventPasswordResetCompleted, events.PasswordResetCompletedPayload{Email: user.Email}))
	return MsgPasswordChanged, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publishConfirmationEmail(ctx context.Context, eventType events.EventType, user *domain.User) {
	token, err := s.tokens.IssueConfirmToken(user.Email)
	if err != nil {
		s.logger.Error("failed to issue confirmation token", zap.Error(err))
		return
	}
	s.dispatcher.Publish(ctx, newEvent(eventType, events.ConfirmationEmailPayload{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
	}))
}

func newEvent(eventType events.EventType, payload any) events.Event {
	return events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
