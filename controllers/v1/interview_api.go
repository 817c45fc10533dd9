package apiv1

import (
	"fmt"
	"interview-platform-backend/config"
	"interview-platform-backend/controllers"
	pdfexport "interview-platform-backend/lib/export/pdf"
	xlsexport "interview-platform-backend/lib/export/xls"
	interviewhandler "interview-platform-backend/lib/interview"
	"interview-platform-backend/middleware"
	apimodels "interview-platform-backend/models/api"
	interviewapimodels "interview-platform-backend/models/api/interview"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

const megabyte = 1024 * 1024

type interviewApiController struct {
	controllers.BaseAPIController
}

func InitInterviewApiRouters(app *fiber.App) {
	controller := interviewApiController{}
	resumeLimit := middleware.WithBodyLimit(int64(config.Conf.Interview.MaxResumeSizeMb+1) * megabyte)
	audioLimit := middleware.WithBodyLimit(int64(config.Conf.Interview.MaxAudioSizeMb+1) * megabyte)
	app.Route("interviews", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Post("export", middleware.AdminRequired(), controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("upload-resume", resumeLimit, controller.uploadResume)
			idRoute.Post("start", controller.start)
			idRoute.Post("next-question", audioLimit, controller.nextQuestion)
			idRoute.Get("summary", controller.summary)
			idRoute.Get("report", controller.report)
			idRoute.Post("messages", controller.addMessage)
			idRoute.Post("tts", controller.tts)
			idRoute.Post("stt", audioLimit, controller.stt)
		})
	})
}

// @Summary Список интервью
// @Tags Интервью
// @Description Список интервью. Кандидат получает только свои интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	status			query	string	false	"статус"
// @Param	job_id			query	string	false	"идентификатор вакансии"
// @Param	candidate_id	query	string	false	"идентификатор кандидата (администратор)"
// @Param	date_from		query	string	false	"дата интервью с (YYYY-MM-DD)"
// @Param	date_to			query	string	false	"дата интервью по (YYYY-MM-DD)"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.InterviewView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews [get]
func (c *interviewApiController) list(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.List(ctx.UserContext(), c.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Назначение интервью
// @Tags Интервью
// @Description Назначение интервью по вакансии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 interviewapimodels.CreateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews [post]
func (c *interviewApiController) create(ctx *fiber.Ctx) error {
	var payload interviewapimodels.CreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.Create(ctx.UserContext(), c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Интервью
// @Tags Интервью
// @Description Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id} [get]
func (c *interviewApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.Get(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Загрузка резюме
// @Tags Интервью
// @Description Загрузка резюме (pdf, docx, txt) и генерация вопросов интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Param   resume	formData	file	true	"файл резюме"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.UploadResumeResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/interviews/{id}/upload-resume [post]
func (c *interviewApiController) uploadResume(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	fileName, body, err := c.ReadFormFile(ctx, "resume", int64(config.Conf.Interview.MaxResumeSizeMb)*megabyte)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.UploadResume(ctx.UserContext(), c.GetActor(ctx), id, fileName, body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки резюме")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Начало интервью
// @Tags Интервью
// @Description Начало интервью, возвращает первый вопрос
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.StartResponse}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interviews/{id}/start [post]
func (c *interviewApiController) start(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.Start(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка начала интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Ответ на вопрос
// @Tags Интервью
// @Description Ответ на текущий вопрос текстом (json) или аудио (multipart, поле audio). Пустой ответ пропускает вопрос
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Param	body body	 interviewapimodels.SubmitAnswerRequest	false	"request body"
// @Param   audio	formData	file	false	"аудио ответа (wav)"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SubmitAnswerResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/interviews/{id}/next-question [post]
func (c *interviewApiController) nextQuestion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var answer string
	var audio *interviewhandler.AudioFile
	if isMultipart(ctx) {
		answer = ctx.FormValue("answer")
		if _, fileErr := ctx.FormFile("audio"); fileErr == nil {
			fileName, body, err := c.ReadFormFile(ctx, "audio", int64(config.Conf.Interview.MaxAudioSizeMb)*megabyte)
			if err != nil {
				return c.SendBadRequest(ctx, err)
			}
			audio = &interviewhandler.AudioFile{FileName: fileName, Body: body}
		}
	} else if len(ctx.Body()) != 0 {
		var payload interviewapimodels.SubmitAnswerRequest
		if err = c.BodyParser(ctx, &payload); err != nil {
			return c.SendBadRequest(ctx, err)
		}
		answer = payload.Answer
	}
	resp, err := interviewhandler.Instance.SubmitAnswer(ctx.UserContext(), c.GetActor(ctx), id, answer, audio)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обработки ответа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Итог интервью
// @Tags Интервью
// @Description Итог завершенного интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.Summary}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interviews/{id}/summary [get]
func (c *interviewApiController) summary(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.Summary(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения итога интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отчет по интервью
// @Tags Интервью
// @Description Отчет по интервью в pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/report [get]
func (c *interviewApiController) report(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	view, err := interviewhandler.Instance.Get(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения интервью")
	}
	body, err := pdfexport.InterviewReport(view, config.Conf.App.FontDir)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования отчета")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=interview_%s.pdf", view.ID))
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Выгрузка интервью
// @Tags Интервью
// @Description Выгрузка списка интервью в xlsx (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 interviewapimodels.InterviewFilter	false	"фильтр"
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/export [post]
func (c *interviewApiController) export(ctx *fiber.Ctx) error {
	var filter interviewapimodels.InterviewFilter
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &filter); err != nil {
			return c.SendBadRequest(ctx, err)
		}
	}
	list, err := interviewhandler.Instance.List(ctx.UserContext(), c.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка интервью")
	}
	buf, err := xlsexport.Instance.ExportInterviewList(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки списка интервью")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=interviews_%s.xlsx", time.Now().Format("2006-01-02")))
	return ctx.Status(fiber.StatusOK).SendStream(buf, buf.Len())
}

// @Summary Сообщение стенограммы
// @Tags Интервью
// @Description Добавление сообщения в стенограмму интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Param	body body	 interviewapimodels.MessageRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.Message}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/interviews/{id}/messages [post]
func (c *interviewApiController) addMessage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload interviewapimodels.MessageRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.AddMessage(ctx.UserContext(), c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления сообщения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Озвучивание текста
// @Tags Интервью
// @Description Синтез речи для вопроса интервью, возвращает ссылку на аудио
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Param	body body	 interviewapimodels.TtsRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.TtsResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/interviews/{id}/tts [post]
func (c *interviewApiController) tts(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload interviewapimodels.TtsRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.Tts(ctx.UserContext(), c.GetActor(ctx), id, payload.Text)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка синтеза речи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Распознавание речи
// @Tags Интервью
// @Description Распознавание аудио без записи ответа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"идентификатор интервью"
// @Param   audio	formData	file	true	"аудио"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SttResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/interviews/{id}/stt [post]
func (c *interviewApiController) stt(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	fileName, body, err := c.ReadFormFile(ctx, "audio", int64(config.Conf.Interview.MaxAudioSizeMb)*megabyte)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := interviewhandler.Instance.Stt(ctx.UserContext(), c.GetActor(ctx), id, interviewhandler.AudioFile{FileName: fileName, Body: body})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка распознавания речи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func isMultipart(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func parseFilter(ctx *fiber.Ctx) (interviewapimodels.InterviewFilter, error) {
	filter := interviewapimodels.InterviewFilter{
		Status:      ctx.Query("status"),
		JobID:       ctx.Query("job_id"),
		CandidateID: ctx.Query("candidate_id"),
	}
	var err error
	if filter.DateFrom, err = parseDate(ctx.Query("date_from")); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseDate(ctx.Query("date_to")); err != nil {
		return filter, err
	}
	if filter.DateTo != nil {
		// включительно до конца дня
		dateTo := filter.DateTo.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &dateTo
	}
	return filter, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.Errorf("некорректная дата: %s", value)
	}
	return &date, nil
}
