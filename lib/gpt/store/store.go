package ailogstore

import (
	dbmodels "interview-platform-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider журнал запросов к ИИ по интервью
type Provider interface {
	Save(rec dbmodels.AiLog) (string, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(rec dbmodels.AiLog) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrapf(err, "ошибка записи журнала ИИ (интервью %s, запрос %s)", rec.InterviewID, rec.ReqestType)
	}
	return rec.ID, nil
}
