package jobapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type JobData struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	TechStack    []string `json:"tech_stack"`
	Requirements []string `json:"requirements"`
	Location     string   `json:"location"`
	JobType      string   `json:"type"`
	SalaryRange  string   `json:"salary_range"`
}

func (r JobData) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("не указано название вакансии")
	}
	if strings.TrimSpace(r.Company) == "" {
		return errors.New("не указана компания")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("не указано описание вакансии")
	}
	return nil
}

type JobView struct {
	JobData
	ID        string    `json:"id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
