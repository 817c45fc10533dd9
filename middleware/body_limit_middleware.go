package middleware

import (
	"fmt"
	"strconv"

	apimodels "interview-platform-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentLength := c.Get("Content-Length")
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(apimodels.NewErrorWithCode(
					"validation",
					fmt.Sprintf("превышен размер запроса, максимум %d байт", limit)))
			}
		}
		return c.Next()
	}
}
