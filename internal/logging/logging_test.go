package logging

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	log, err := New("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestMiddleware_LogsAndTagsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(Middleware(zap.New(core)))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	id := res.Header.Get(RequestIDHeader)
	assert.NotEmpty(t, id)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, id, ctx["request_id"])
	assert.Equal(t, "/ping", ctx["path"])
	assert.EqualValues(t, fiber.StatusOK, ctx["status"])
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(zap.NewNop()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", res.Header.Get(RequestIDHeader))
}

func TestMiddleware_LogsHandlerError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(Middleware(zap.New(core)))
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "nope") })

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, res.StatusCode)

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, fiber.StatusTeapot, entries[0].ContextMap()["status"])
}
