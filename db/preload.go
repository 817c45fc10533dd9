package db

import (
	"interview-platform-backend/config"
	jobstore "interview-platform-backend/lib/jobs/store"
	userstore "interview-platform-backend/lib/users/store"
	authutils "interview-platform-backend/lib/utils/auth-utils"
	"interview-platform-backend/models"
	dbmodels "interview-platform-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// AdminCreator создание администратора без дубликатов по почте
type AdminCreator func(email, name, password string) error

const (
	sampleCandidateEmail    = "candidate@interview.local"
	sampleCandidatePassword = "candidate123"
)

func InitPreload(createAdmin AdminCreator) {
	addAdmin(createAdmin)
	if !*config.Conf.Database.SeedOnStart {
		return
	}
	fillJobs()
	addSampleCandidate()
}

func addAdmin(createAdmin AdminCreator) {
	if config.Conf.Auth.AdminEmail == "" {
		log.Warn("администратор не добавлен, отсутствует настройка ADMIN_EMAIL")
		return
	}
	err := createAdmin(config.Conf.Auth.AdminEmail, "Администратор", config.Conf.Auth.AdminPassword)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
	}
}

func fillJobs() {
	store := jobstore.NewInstance(DB)
	list, err := store.List("")
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения вакансий")
		return
	}
	if len(list) > 0 {
		return
	}
	for _, rec := range sampleJobs() {
		if _, err = store.Create(rec); err != nil {
			log.
				WithError(err).
				WithField("title", rec.Title).
				Error("ошибка добавления вакансии")
			return
		}
	}
	log.Info("вакансии добавлены")
}

func addSampleCandidate() {
	store := userstore.NewInstance(DB)
	exist, err := store.GetByEmail(sampleCandidateEmail)
	if err != nil {
		log.WithError(err).Error("ошибка добавления тестового кандидата")
		return
	}
	if exist != nil {
		return
	}
	hash, err := authutils.HashPassword(sampleCandidatePassword)
	if err != nil {
		log.WithError(err).Error("ошибка добавления тестового кандидата")
		return
	}
	_, err = store.Create(dbmodels.User{
		Email:    sampleCandidateEmail,
		Name:     "John Doe",
		Password: hash,
		Role:     models.CandidateRole,
		Skills:   []string{"Go", "PostgreSQL", "Docker"},
	})
	if err != nil {
		log.WithError(err).Error("ошибка добавления тестового кандидата")
	}
}

func sampleJobs() []dbmodels.Job {
	return []dbmodels.Job{
		{
			Title:        "Senior Go Developer",
			Company:      "TechCorp",
			Description:  "Develop and maintain backend services for a high load platform.",
			TechStack:    []string{"Go", "PostgreSQL", "Kafka", "Kubernetes"},
			Requirements: []string{"5+ years of backend development", "Experience with distributed systems"},
			Location:     "Remote",
			JobType:      "full-time",
			SalaryRange:  "$120k - $160k",
		},
		{
			Title:        "Frontend Engineer",
			Company:      "WebWorks",
			Description:  "Build responsive user interfaces for our interview tools.",
			TechStack:    []string{"TypeScript", "React", "CSS"},
			Requirements: []string{"3+ years with React", "Understanding of accessibility"},
			Location:     "Berlin",
			JobType:      "full-time",
			SalaryRange:  "€60k - €80k",
		},
		{
			Title:        "Data Scientist",
			Company:      "DataMinds",
			Description:  "Design ML models for candidate assessment analytics.",
			TechStack:    []string{"Python", "Pandas", "scikit-learn", "SQL"},
			Requirements: []string{"Strong statistics background", "Experience with NLP"},
			Location:     "Hybrid",
			JobType:      "contract",
			SalaryRange:  "$90k - $130k",
		},
	}
}
