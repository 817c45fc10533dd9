package dbmodels

import (
	"fmt"
	jobapimodels "interview-platform-backend/models/api/job"
	"strings"

	"github.com/lib/pq"
)

type Job struct {
	BaseModel
	Title        string         `gorm:"type:varchar(255);index"`
	Company      string         `gorm:"type:varchar(255)"`
	Description  string         `gorm:"type:text"`
	TechStack    pq.StringArray `gorm:"type:text[]"`
	Requirements pq.StringArray `gorm:"type:text[]"`
	Location     string         `gorm:"type:varchar(255)"`
	JobType      string         `gorm:"type:varchar(50)"`
	SalaryRange  string         `gorm:"type:varchar(100)"`
	CreatedBy    string         `gorm:"type:varchar(36)"`
}

func (r Job) ToModel() jobapimodels.JobView {
	return jobapimodels.JobView{
		ID: r.ID,
		JobData: jobapimodels.JobData{
			Title:        r.Title,
			Company:      r.Company,
			Description:  r.Description,
			TechStack:    nonNil(r.TechStack),
			Requirements: nonNil(r.Requirements),
			Location:     r.Location,
			JobType:      r.JobType,
			SalaryRange:  r.SalaryRange,
		},
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

// GetContext текстовое описание вакансии для генерации вопросов
func (r Job) GetContext() string {
	return fmt.Sprintf("Job Title: %s\nCompany: %s\nDescription: %s\nTech Stack: %s\nRequirements: %s",
		r.Title,
		r.Company,
		r.Description,
		strings.Join(r.TechStack, ", "),
		strings.Join(r.Requirements, ", "))
}

func nonNil(list pq.StringArray) []string {
	if list == nil {
		return []string{}
	}
	return list
}
