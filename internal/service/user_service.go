package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/spec-kit/contacts-service/internal/auth"
	"github.com/spec-kit/contacts-service/internal/domain"
	"github.com/spec-kit/contacts-service/internal/repository"
	"github.com/spec-kit/contacts-service/internal/storage"
)

// UserService manages profile-level operations on principals.
type UserService struct {
	users   repository.UserRepository
	avatars storage.AvatarStore
	cache   auth.PrincipalCache
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, avatars storage.AvatarStore, cache auth.PrincipalCache) *UserService {
	return &UserService{users: users, avatars: avatars, cache: cache}
}

// UpdateAvatar uploads the image and persists its URL on the user record.
func (s *UserService) UpdateAvatar(ctx context.Context, user *domain.User, data []byte, contentType string) (*domain.User, error) {
	url, err := s.avatars.Upload(ctx, data, contentType, user.Username)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, user.Username)
	return updated, nil
}

// GravatarURL derives the default avatar for a new account from its email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=identicon"
}
