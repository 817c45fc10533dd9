package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify логирует ответы с кодом 5xx и, если задан addr, отправляет уведомление на внешний адрес
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}
		var data struct {
			Status  string `json:"status"`
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			data.Message = string(c.Response().Body())
		}
		method := c.Method()
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		log.
			WithField("status", statusCode).
			WithField("method", method).
			WithField("path", path).
			WithField("code", data.Code).
			Error(data.Message)
		if addr == "" {
			return err
		}
		go func() {
			payload := fmt.Sprintf(
				`{"code":%d,"method":%q,"path":%q,"error":%q}`,
				statusCode, method, path, data.Message)
			if _, reqErr := http.Post(addr, "application/json", strings.NewReader(payload)); reqErr != nil {
				log.WithError(reqErr).Warn("ошибка отправки уведомления об ошибке")
			}
		}()
		return err
	}
}
