package controllers

import (
	"interview-platform-backend/lib/apperr"
	interviewhandler "interview-platform-backend/lib/interview"
	"interview-platform-backend/middleware"
	apimodels "interview-platform-backend/models/api"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

var kindStatus = map[apperr.Kind]int{
	apperr.KindNotFound:         fiber.StatusNotFound,
	apperr.KindAccessDenied:     fiber.StatusForbidden,
	apperr.KindPrecondition:     fiber.StatusConflict,
	apperr.KindValidation:       fiber.StatusBadRequest,
	apperr.KindConflict:         fiber.StatusConflict,
	apperr.KindExtraction:       fiber.StatusUnprocessableEntity,
	apperr.KindGeneration:       fiber.StatusBadGateway,
	apperr.KindScoring:          fiber.StatusBadGateway,
	apperr.KindTranscription:    fiber.StatusBadGateway,
	apperr.KindEmptyAggregation: fiber.StatusUnprocessableEntity,
	apperr.KindInternal:         fiber.StatusInternalServerError,
}

// HttpStatus код ответа для типа ошибки
func HttpStatus(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(ctx.Params("id"))
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetActor(ctx *fiber.Ctx) interviewhandler.Actor {
	return interviewhandler.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetRole(ctx),
	}
}

// SendError ответ с ошибкой. Сообщение типизированной ошибки уходит клиенту, причина только в лог
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, defaultMsg string) error {
	kind := apperr.KindOf(err)
	status := HttpStatus(kind)
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(defaultMsg)
	} else {
		logger.WithError(err).Warn(defaultMsg)
	}
	return ctx.Status(status).JSON(apimodels.NewErrorWithCode(string(kind), apperr.UserMessage(err, defaultMsg)))
}

func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewErrorWithCode(string(apperr.KindValidation), err.Error()))
}

// ReadFormFile содержимое файла из multipart формы. Файл больше maxSize отклоняется
func (c *BaseAPIController) ReadFormFile(ctx *fiber.Ctx, field string, maxSize int64) (fileName string, body []byte, err error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return "", nil, errors.Errorf("не передан файл %s", field)
	}
	return readFile(fileHeader, maxSize)
}

func readFile(fileHeader *multipart.FileHeader, maxSize int64) (string, []byte, error) {
	if maxSize > 0 && fileHeader.Size > maxSize {
		return "", nil, errors.Errorf("размер файла превышает %d МБ", maxSize/(1024*1024))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, errors.Wrap(err, "ошибка открытия файла")
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return "", nil, errors.Wrap(err, "ошибка чтения файла")
	}
	return fileHeader.Filename, body, nil
}
