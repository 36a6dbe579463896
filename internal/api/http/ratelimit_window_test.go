package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMapCounter() *mapCounter {
	return &mapCounter{counts: make(map[string]int64)}
}

func (c *mapCounter) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}

func (c *mapCounter) Expire(context.Context, string, time.Duration) error {
	return nil
}

func windowTestApp(counter rateCounter, limit int, now func() time.Time) *fiber.App {
	app := fiber.New()
	app.Use(errorHandlingMiddleware(zap.NewNop(), nil))
	app.Get("/limited",
		rateLimit(counter, limit, time.Minute, now, zap.NewNop()),
		func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func limitedGet(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil), -1)
	require.NoError(t, err)
	return resp
}

func rateLimitErrorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", raw)
	code, _ := errObj["code"].(string)
	return code
}

func TestRateLimitRejectsAboveLimit(t *testing.T) {
	now := time.Date(2023, 6, 10, 12, 0, 0, 0, time.UTC)
	app := windowTestApp(newMapCounter(), 3, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		resp := limitedGet(t, app)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "request %d within limit", i+1)
	}

	resp := limitedGet(t, app)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", rateLimitErrorCode(t, resp))
}

func TestRateLimitAllowsExactlyLimitRequests(t *testing.T) {
	// The comparison is strict: request number limit passes, limit+1 fails.
	now := time.Date(2023, 6, 10, 12, 0, 0, 0, time.UTC)
	app := windowTestApp(newMapCounter(), 1, func() time.Time { return now })

	first := limitedGet(t, app)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := limitedGet(t, app)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestRateLimitResetsInNextWindow(t *testing.T) {
	now := time.Date(2023, 6, 10, 12, 0, 30, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	app := windowTestApp(newMapCounter(), 1, clock)

	assert.Equal(t, http.StatusOK, limitedGet(t, app).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, limitedGet(t, app).StatusCode)

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()

	assert.Equal(t, http.StatusOK, limitedGet(t, app).StatusCode)
}
