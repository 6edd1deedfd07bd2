package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/observability"
)

func newRequestIDApp() *fiber.App {
	app := fiber.New()
	app.Use(observability.RequestLogger(zap.NewNop(), observability.NewMetrics()))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(observability.RequestID(c))
	})
	return app
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	t.Parallel()

	app := newRequestIDApp()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	echoed := resp.Header.Get(fiber.HeaderXRequestID)
	require.NotEmpty(t, echoed)
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, echoed, string(body))
}

func TestRequestIDInboundPreserved(t *testing.T) {
	t.Parallel()

	app := newRequestIDApp()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "caller-supplied-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "caller-supplied-id", resp.Header.Get(fiber.HeaderXRequestID))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied-id", string(body))
}
