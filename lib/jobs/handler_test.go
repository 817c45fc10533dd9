package jobshandler

import (
	"fmt"
	"interview-platform-backend/lib/apperr"
	"interview-platform-backend/models"
	activityapimodels "interview-platform-backend/models/api/activity"
	jobapimodels "interview-platform-backend/models/api/job"
	dbmodels "interview-platform-backend/models/db"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	jobs map[string]dbmodels.Job
}

func (m *memStore) Create(rec dbmodels.Job) (string, error) {
	rec.ID = fmt.Sprintf("job-%d", len(m.jobs)+1)
	m.jobs[rec.ID] = rec
	return rec.ID, nil
}

func (m *memStore) GetByID(id string) (*dbmodels.Job, error) {
	rec, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memStore) Update(id string, updMap map[string]interface{}) error {
	rec := m.jobs[id]
	rec.Title = updMap["title"].(string)
	rec.TechStack = updMap["tech_stack"].(pq.StringArray)
	m.jobs[id] = rec
	return nil
}

func (m *memStore) Delete(id string) error {
	delete(m.jobs, id)
	return nil
}

func (m *memStore) List(search string) ([]dbmodels.Job, error) {
	result := []dbmodels.Job{}
	for _, rec := range m.jobs {
		result = append(result, rec)
	}
	return result, nil
}

type noopActivity struct{}

func (noopActivity) Log(userID string, activityType models.ActivityType, description string) {}

func (noopActivity) List(userID string, role models.UserRole) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

func TestJobs(t *testing.T) {
	provider := NewProvider(&memStore{jobs: map[string]dbmodels.Job{}}, noopActivity{})
	data := jobapimodels.JobData{
		Title:       "Go Developer",
		Company:     "Acme",
		Description: "Backend services",
		TechStack:   []string{"go", "postgres"},
	}

	var jobID string
	t.Run("создание", func(t *testing.T) {
		view, err := provider.Create("admin", data)
		require.NoError(t, err)
		require.Equal(t, "Go Developer", view.Title)
		require.Equal(t, []string{"go", "postgres"}, view.TechStack)
		require.Equal(t, []string{}, view.Requirements)
		jobID = view.ID
	})
	t.Run("контекст вакансии", func(t *testing.T) {
		rec, err := provider.GetRecord(jobID)
		require.NoError(t, err)
		require.Contains(t, rec.GetContext(), "Tech Stack: go, postgres")
	})
	t.Run("обновление", func(t *testing.T) {
		data.Title = "Senior Go Developer"
		view, err := provider.Update("admin", jobID, data)
		require.NoError(t, err)
		require.Equal(t, "Senior Go Developer", view.Title)
	})
	t.Run("удаление", func(t *testing.T) {
		require.NoError(t, provider.Delete("admin", jobID))
		_, err := provider.Get(jobID)
		require.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}
