package activityhandler

import (
	"interview-platform-backend/db"
	activitystore "interview-platform-backend/lib/activity/store"
	"interview-platform-backend/models"
	activityapimodels "interview-platform-backend/models/api/activity"
	dbmodels "interview-platform-backend/models/db"

	log "github.com/sirupsen/logrus"
)

const listLimit = 100

type Provider interface {
	// Log запись активности, ошибки только логируются
	Log(userID string, activityType models.ActivityType, description string)
	List(userID string, role models.UserRole) ([]activityapimodels.ActivityView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewProvider(activitystore.NewInstance(db.DB))
}

func NewProvider(store activitystore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store activitystore.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.
		WithField("user_id", userID)
}

func (i impl) Log(userID string, activityType models.ActivityType, description string) {
	_, err := i.store.Create(dbmodels.Activity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	})
	if err != nil {
		i.getLogger(userID).
			WithField("activity_type", activityType).
			WithError(err).
			Warn("ошибка записи активности")
	}
}

func (i impl) List(userID string, role models.UserRole) ([]activityapimodels.ActivityView, error) {
	filterUserID := userID
	if role.IsAdmin() {
		filterUserID = ""
	}
	list, err := i.store.List(filterUserID, listLimit)
	if err != nil {
		return nil, err
	}
	result := make([]activityapimodels.ActivityView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}
