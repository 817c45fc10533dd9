package fiberlog

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagStatus, TagMethod, TagPath, TagUserID},
	}))
	app.Get("/ok", func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	t.Run("успешный запрос", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
		require.NoError(t, err)
		entry := hook.LastEntry()
		require.Equal(t, logrus.InfoLevel, entry.Level)
		require.Equal(t, 200, entry.Data[TagStatus])
		require.Equal(t, "/ok", entry.Data[TagPath])
		require.Equal(t, "u1", entry.Data[TagUserID])
	})
	t.Run("ошибка клиента", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
		require.NoError(t, err)
		entry := hook.LastEntry()
		require.Equal(t, logrus.WarnLevel, entry.Level)
		require.Equal(t, 404, entry.Data[TagStatus])
		_, hasUser := entry.Data[TagUserID]
		require.False(t, hasUser)
	})
}
