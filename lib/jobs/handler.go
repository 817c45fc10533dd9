package jobshandler

import (
	"interview-platform-backend/db"
	activityhandler "interview-platform-backend/lib/activity"
	"interview-platform-backend/lib/apperr"
	jobstore "interview-platform-backend/lib/jobs/store"
	"interview-platform-backend/models"
	jobapimodels "interview-platform-backend/models/api/job"
	dbmodels "interview-platform-backend/models/db"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(userID string, data jobapimodels.JobData) (jobapimodels.JobView, error)
	Get(id string) (jobapimodels.JobView, error)
	Update(userID, id string, data jobapimodels.JobData) (jobapimodels.JobView, error)
	Delete(userID, id string) error
	List(search string) ([]jobapimodels.JobView, error)
	// GetRecord вакансия для построения контекста интервью
	GetRecord(id string) (*dbmodels.Job, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewProvider(jobstore.NewInstance(db.DB), activityhandler.Instance)
}

func NewProvider(store jobstore.Provider, activity activityhandler.Provider) Provider {
	return impl{
		store:    store,
		activity: activity,
	}
}

type impl struct {
	store    jobstore.Provider
	activity activityhandler.Provider
}

func (i impl) getLogger(userID, jobID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if jobID != "" {
		logger = logger.WithField("job_id", jobID)
	}
	return logger
}

func (i impl) Create(userID string, data jobapimodels.JobData) (jobapimodels.JobView, error) {
	rec := dbmodels.Job{
		Title:        data.Title,
		Company:      data.Company,
		Description:  data.Description,
		TechStack:    pq.StringArray(data.TechStack),
		Requirements: pq.StringArray(data.Requirements),
		Location:     data.Location,
		JobType:      data.JobType,
		SalaryRange:  data.SalaryRange,
		CreatedBy:    userID,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	i.getLogger(userID, id).Info("создана вакансия")
	i.activity.Log(userID, models.ActivityJobCreation, "Создана вакансия "+data.Title)
	return i.Get(id)
}

func (i impl) Get(id string) (jobapimodels.JobView, error) {
	rec, err := i.GetRecord(id)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) Update(userID, id string, data jobapimodels.JobData) (jobapimodels.JobView, error) {
	if _, err := i.GetRecord(id); err != nil {
		return jobapimodels.JobView{}, err
	}
	updMap := map[string]interface{}{
		"title":        data.Title,
		"company":      data.Company,
		"description":  data.Description,
		"tech_stack":   pq.StringArray(data.TechStack),
		"requirements": pq.StringArray(data.Requirements),
		"location":     data.Location,
		"job_type":     data.JobType,
		"salary_range": data.SalaryRange,
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	i.getLogger(userID, id).Info("вакансия обновлена")
	i.activity.Log(userID, models.ActivityJobUpdate, "Обновлена вакансия "+data.Title)
	return i.Get(id)
}

func (i impl) Delete(userID, id string) error {
	rec, err := i.GetRecord(id)
	if err != nil {
		return err
	}
	err = i.store.Delete(id)
	if err != nil {
		return err
	}
	i.getLogger(userID, id).Info("вакансия удалена")
	i.activity.Log(userID, models.ActivityJobDelete, "Удалена вакансия "+rec.Title)
	return nil
}

func (i impl) List(search string) ([]jobapimodels.JobView, error) {
	list, err := i.store.List(search)
	if err != nil {
		return nil, err
	}
	result := make([]jobapimodels.JobView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) GetRecord(id string) (*dbmodels.Job, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("вакансия не найдена")
	}
	return rec, nil
}
