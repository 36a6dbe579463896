package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/contacts-service/internal/api/http"
)

func rateLimitedApp(client *redis.Client, limit int) *fiber.App {
	app := fiber.New()
	app.Get("/limited",
		httptransport.RateLimit(client, limit, time.Minute, zap.NewNop()),
		func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestRateLimitPassesThroughWhenDisabled(t *testing.T) {
	tests := []struct {
		name   string
		client *redis.Client
		limit  int
	}{
		{name: "no redis client", client: nil, limit: 10},
		{name: "zero limit", client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := rateLimitedApp(tt.client, tt.limit)
			for i := 0; i < 20; i++ {
				resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil), -1)
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		})
	}
}

func TestRateLimitFailsOpenWhenRedisUnreachable(t *testing.T) {
	// Throttling is a protection, not a correctness requirement: an
	// unreachable counter store must not take the endpoint down with it.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	app := rateLimitedApp(client, 1)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
