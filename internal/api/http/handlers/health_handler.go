package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

// HealthHandler probes the service's dependencies.
type HealthHandler struct {
	pool *pgxpool.Pool
}

// NewHealthHandler constructs handler.
func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Check handles GET /api/healthchecker with a round-trip to the database.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.pool == nil {
		return apperrors.NewInternalError(nil)
	}

	var one int
	if err := h.pool.QueryRow(c.Context(), "SELECT 1").Scan(&one); err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{"message": "Service is healthy"})
}
