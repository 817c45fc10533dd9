package apiv1

import (
	"interview-platform-backend/config"
	"interview-platform-backend/controllers"
	assessmenthandler "interview-platform-backend/lib/assessment"
	"interview-platform-backend/middleware"
	apimodels "interview-platform-backend/models/api"
	assessmentapimodels "interview-platform-backend/models/api/assessment"

	"github.com/gofiber/fiber/v2"
)

type assessmentApiController struct {
	controllers.BaseAPIController
}

func InitAssessmentApiRouters(app *fiber.App) {
	controller := assessmentApiController{}
	resumeLimit := middleware.WithBodyLimit(int64(config.Conf.Interview.MaxResumeSizeMb+1) * megabyte)
	app.Post("resume/questions", middleware.AuthorizationRequired(), resumeLimit, controller.questions)
	app.Post("answers/evaluate", middleware.AuthorizationRequired(), controller.evaluate)
	app.Post("interview-summary", middleware.AuthorizationRequired(), controller.summary)
}

// @Summary Вопросы по резюме
// @Tags Оценка
// @Description Генерация вопросов по резюме без привязки к интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   resume	formData	file	true	"файл резюме"
// @Success 200 {object} apimodels.Response{data=assessmentapimodels.QuestionsResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/resume/questions [post]
func (c *assessmentApiController) questions(ctx *fiber.Ctx) error {
	fileName, body, err := c.ReadFormFile(ctx, "resume", int64(config.Conf.Interview.MaxResumeSizeMb)*megabyte)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := assessmenthandler.Instance.Questions(ctx.UserContext(), middleware.GetUserID(ctx), fileName, body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка генерации вопросов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Оценка ответов
// @Tags Оценка
// @Description Оценка набора ответов на вопросы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 assessmentapimodels.EvaluateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=assessmentapimodels.EvaluateResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/answers/evaluate [post]
func (c *assessmentApiController) evaluate(ctx *fiber.Ctx) error {
	var payload assessmentapimodels.EvaluateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := assessmenthandler.Instance.Evaluate(ctx.UserContext(), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка оценки ответов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Итог по внешней оценке
// @Tags Оценка
// @Description Итоговая метка по оценке, посчитанной вне платформы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 assessmentapimodels.SummaryRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=assessmentapimodels.SummaryResponse}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/interview-summary [post]
func (c *assessmentApiController) summary(ctx *fiber.Ctx) error {
	var payload assessmentapimodels.SummaryRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp := assessmenthandler.Instance.Summary(middleware.GetUserID(ctx), payload)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
