package activitystore

import (
	dbmodels "interview-platform-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Activity) (id string, err error)
	// List userID пустой - активности всех пользователей
	List(userID string, limit int) ([]dbmodels.Activity, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Activity) (string, error) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения активности")
	}
	return rec.ID, nil
}

func (i impl) List(userID string, limit int) ([]dbmodels.Activity, error) {
	list := []dbmodels.Activity{}
	tx := i.db.Model(dbmodels.Activity{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка активностей")
	}
	return list, nil
}
