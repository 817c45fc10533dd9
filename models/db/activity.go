package dbmodels

import (
	"interview-platform-backend/models"
	activityapimodels "interview-platform-backend/models/api/activity"
)

type Activity struct {
	BaseModel
	UserID       string              `gorm:"type:varchar(36);index"`
	ActivityType models.ActivityType `gorm:"type:varchar(50)"`
	Description  string
}

func (r Activity) ToModel() activityapimodels.ActivityView {
	return activityapimodels.ActivityView{
		ID:           r.ID,
		UserID:       r.UserID,
		ActivityType: string(r.ActivityType),
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
	}
}
