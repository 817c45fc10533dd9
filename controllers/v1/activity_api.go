package apiv1

import (
	"interview-platform-backend/controllers"
	activityhandler "interview-platform-backend/lib/activity"
	"interview-platform-backend/middleware"
	apimodels "interview-platform-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type activityApiController struct {
	controllers.BaseAPIController
}

func InitActivityApiRouters(app *fiber.App) {
	controller := activityApiController{}
	app.Route("activities", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.list)
	})
}

// @Summary Журнал активности
// @Tags Активность
// @Description Последние действия пользователя, администратор видит действия всех пользователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]activityapimodels.ActivityView}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/activities [get]
func (c *activityApiController) list(ctx *fiber.Ctx) error {
	resp, err := activityhandler.Instance.List(middleware.GetUserID(ctx), middleware.GetRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала активности")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
