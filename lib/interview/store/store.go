package interviewstore

import (
	"interview-platform-backend/lib/apperr"
	"interview-platform-backend/models"
	dbmodels "interview-platform-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	CandidateID string
	JobID       string
	Status      models.InterviewStatus
	DateFrom    *time.Time
	DateTo      *time.Time
}

type Provider interface {
	Create(rec dbmodels.Interview) (id string, err error)
	GetByID(id string) (*dbmodels.Interview, error)
	// Save сохранение с проверкой версии записи. При несовпадении версии ошибка conflict, при успехе rec.Version увеличивается
	Save(rec *dbmodels.Interview) error
	List(filter Filter) ([]dbmodels.Interview, error)
	// ListForReminder запланированные интервью в интервале, по которым еще не отправлено напоминание
	ListForReminder(from, to time.Time) ([]dbmodels.Interview, error)
	SetReminderSent(id string, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Interview) (string, error) {
	err := i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания интервью")
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Interview, error) {
	rec := dbmodels.Interview{}
	err := i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", id).
		Preload(clause.Associations).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Save(rec *dbmodels.Interview) error {
	expected := rec.Version
	upd := *rec
	upd.Version = expected + 1
	upd.Job = nil
	upd.Candidate = nil
	tx := i.updateWithVersion(&upd, expected)
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "ошибка сохранения интервью")
	}
	if tx.RowsAffected == 0 {
		return apperr.Conflict("интервью было изменено другим запросом, повторите попытку")
	}
	rec.Version = upd.Version
	rec.UpdatedAt = upd.UpdatedAt
	return nil
}

// updateWithVersion обновление всех колонок кроме отметки о напоминании: ее ставит воркер без смены версии
func (i impl) updateWithVersion(upd *dbmodels.Interview, expected int) *gorm.DB {
	return i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", upd.ID).
		Where("version = ?", expected).
		Select("*").
		Omit("ID", "CreatedAt", "ReminderSentAt", clause.Associations).
		Updates(upd)
}

func (i impl) List(filter Filter) ([]dbmodels.Interview, error) {
	list := []dbmodels.Interview{}
	tx := i.db.
		Model(&dbmodels.Interview{}).
		Preload(clause.Associations)
	if filter.CandidateID != "" {
		tx = tx.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.JobID != "" {
		tx = tx.Where("job_id = ?", filter.JobID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		tx = tx.Where("scheduled_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("scheduled_at <= ?", *filter.DateTo)
	}
	err := tx.
		Order("scheduled_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка интервью")
	}
	return list, nil
}

func (i impl) ListForReminder(from, to time.Time) ([]dbmodels.Interview, error) {
	list := []dbmodels.Interview{}
	err := i.db.
		Model(&dbmodels.Interview{}).
		Preload(clause.Associations).
		Where("status in (?)", []models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusResumeUploaded}).
		Where("scheduled_at between ? and ?", from, to).
		Where("reminder_sent_at is null").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения интервью для напоминания")
	}
	return list, nil
}

func (i impl) SetReminderSent(id string, at time.Time) error {
	err := i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", id).
		UpdateColumn("reminder_sent_at", at).
		Error
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения отметки о напоминании")
	}
	return nil
}
