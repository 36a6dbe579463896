package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/contacts-service/internal/domain"
	"github.com/spec-kit/contacts-service/internal/repository"
	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

const principalKeyLocal = "auth_principal"

// AuthMiddleware resolves bearer tokens to principals in front of every
// protected route.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	cache  PrincipalCache
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, cache PrincipalCache) *AuthMiddleware {
	if cache == nil {
		cache = noopPrincipalCache{}
	}
	return &AuthMiddleware{tokens: tokens, users: users, cache: cache}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1], PurposeAccess)
	if err != nil {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	user, ok := m.cache.Get(c.Context(), claims.Subject)
	if !ok {
		user, err = m.users.GetByUsername(c.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("could not validate credentials")
			}
			return apperrors.MapError(err)
		}
		m.cache.Set(c.Context(), user)
	}

	c.Locals(principalKeyLocal, user)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKeyLocal)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
