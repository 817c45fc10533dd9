package dbmodels

import (
	"interview-platform-backend/models"
	authapimodels "interview-platform-backend/models/api/auth"
	"time"

	"github.com/lib/pq"
)

type User struct {
	BaseModel
	Email       string          `gorm:"type:varchar(255);uniqueIndex"`
	Name        string          `gorm:"type:varchar(255)"`
	Password    string          `gorm:"type:varchar(128)"`
	Role        models.UserRole `gorm:"type:varchar(50);index"`
	PhoneNumber string          `gorm:"type:varchar(30)"`
	Skills      pq.StringArray  `gorm:"type:text[]"`
	LinkedinUrl string          `gorm:"type:varchar(255)"`
	LastLogin   *time.Time
}

func (r User) ToProfile() authapimodels.Profile {
	result := authapimodels.Profile{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Role:      string(r.Role),
		RoleName:  r.Role.ToHuman(),
		Phone:     r.PhoneNumber,
		Skills:    []string(r.Skills),
		Linkedin:  r.LinkedinUrl,
		CreatedAt: r.CreatedAt,
		LastLogin: r.LastLogin,
	}
	if result.Skills == nil {
		result.Skills = []string{}
	}
	return result
}
