package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contacts-service/internal/domain"
	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

// RequireAdmin ensures the authenticated principal holds the admin role.
// Token validity alone is not enough; a plain user gets 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("could not validate credentials")
		}
		if principal.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("permission denied")
		}
		return c.Next()
	}
}
