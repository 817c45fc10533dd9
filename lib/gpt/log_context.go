package gpthandler

import (
	"context"

	dbmodels "interview-platform-backend/models/db"
)

type ctxKey string

const (
	interviewIDKey ctxKey = "interviewID"
	reqestTypeKey  ctxKey = "reqestType"
)

// LogData данные запроса к ИИ для журнала
type LogData struct {
	InterviewID string
	ReqestType  dbmodels.AiReqestType
}

func WithLogData(ctx context.Context, interviewID string, reqestType dbmodels.AiReqestType) context.Context {
	ctx = context.WithValue(ctx, interviewIDKey, interviewID)
	return context.WithValue(ctx, reqestTypeKey, reqestType)
}

func ExtractLogData(ctx context.Context) LogData {
	data := LogData{}
	if value, ok := ctx.Value(interviewIDKey).(string); ok {
		data.InterviewID = value
	}
	if value, ok := ctx.Value(reqestTypeKey).(dbmodels.AiReqestType); ok {
		data.ReqestType = value
	}
	return data
}
