package gpthandler

import (
	"context"
	"interview-platform-backend/config"
	"interview-platform-backend/db"
	geminiclient "interview-platform-backend/lib/gpt/gemini-client"
	ailogstore "interview-platform-backend/lib/gpt/store"
	yagptclient "interview-platform-backend/lib/gpt/yagpt-client"
	dbmodels "interview-platform-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// GenerateByPromtAndText запрос к ИИ с ограничением по времени, каждый запрос пишется в журнал
	GenerateByPromtAndText(ctx context.Context, sysPromt, text string) (string, error)
}

// Client клиент конкретного ИИ
type Client interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error)
}

var Instance Provider

func NewHandler(ctx context.Context) {
	var (
		client Client
		aiName dbmodels.AiName
		err    error
	)
	switch dbmodels.AiName(config.Conf.AI.Provider) {
	case dbmodels.AiGeminiType:
		aiName = dbmodels.AiGeminiType
		client, err = geminiclient.NewClient(ctx, config.Conf.Gemini.APIKey, config.Conf.Gemini.Model, config.Conf.AI.Temperature)
		if err != nil {
			log.WithError(err).Error("ошибка инициализации Gemini, запросы к ИИ будут недоступны")
			client = unavailableClient{err: err}
		}
	default:
		aiName = dbmodels.AiYaGptType
		client = yagptclient.NewClient(config.Conf.YandexGPT.IAMToken, config.Conf.YandexGPT.CatalogID)
	}
	Instance = NewProvider(client, aiName, ailogstore.NewInstance(db.DB), time.Duration(config.Conf.AI.RequestTimeoutSec)*time.Second)
}

func NewProvider(client Client, aiName dbmodels.AiName, store ailogstore.Provider, timeout time.Duration) Provider {
	return impl{
		client:  client,
		aiName:  aiName,
		store:   store,
		timeout: timeout,
	}
}

type impl struct {
	client  Client
	aiName  dbmodels.AiName
	store   ailogstore.Provider
	timeout time.Duration
}

func (i impl) getLogger(data LogData) *log.Entry {
	return log.
		WithField("ai_name", i.aiName).
		WithField("interview_id", data.InterviewID).
		WithField("reqest_type", data.ReqestType)
}

func (i impl) GenerateByPromtAndText(ctx context.Context, sysPromt, text string) (string, error) {
	logData := ExtractLogData(ctx)
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	answer, err := i.client.GenerateByPromtAndText(ctx, sysPromt, text)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = errors.Wrap(err, "превышено время ожидания ответа ИИ")
	}
	i.saveLog(logData, sysPromt, text, answer, err)
	if err != nil {
		i.getLogger(logData).WithError(err).Warn("ошибка запроса к ИИ")
		return "", err
	}
	return answer, nil
}

func (i impl) saveLog(data LogData, sysPromt, userPromt, answer string, reqErr error) {
	if i.store == nil {
		return
	}
	rec := dbmodels.AiLog{
		SysPromt:    sysPromt,
		UserPromt:   userPromt,
		Answer:      answer,
		InterviewID: data.InterviewID,
		ReqestType:  data.ReqestType,
		AiName:      i.aiName,
	}
	if reqErr != nil {
		rec.Error = reqErr.Error()
	}
	if _, err := i.store.Save(rec); err != nil {
		i.getLogger(data).WithError(err).Error("ошибка сохранения журнала запросов к ИИ")
	}
}

type unavailableClient struct {
	err error
}

func (c unavailableClient) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	return "", errors.Wrap(c.err, "клиент ИИ не инициализирован")
}
