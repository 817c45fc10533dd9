package reminderworker

import (
	"context"
	interviewstore "interview-platform-backend/lib/interview/store"
	dbmodels "interview-platform-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type reminderStore struct {
	interviewstore.Provider
	list []dbmodels.Interview
	sent []string
}

func (s *reminderStore) ListForReminder(from, to time.Time) ([]dbmodels.Interview, error) {
	result := []dbmodels.Interview{}
	for _, rec := range s.list {
		if !rec.ScheduledAt.Before(from) && !rec.ScheduledAt.After(to) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (s *reminderStore) SetReminderSent(id string, at time.Time) error {
	s.sent = append(s.sent, id)
	return nil
}

type reminderNotify struct {
	delivered map[string]bool
}

func (n reminderNotify) InterviewScheduled(rec dbmodels.Interview) {}
func (n reminderNotify) QuestionsReady(rec dbmodels.Interview)     {}
func (n reminderNotify) InterviewCompleted(rec dbmodels.Interview) {}
func (n reminderNotify) InterviewReminder(rec dbmodels.Interview) bool {
	return n.delivered[rec.ID]
}

func TestReminderWorker(t *testing.T) {
	now := time.Now()
	store := &reminderStore{list: []dbmodels.Interview{
		{BaseModel: dbmodels.BaseModel{ID: "soon"}, ScheduledAt: now.Add(2 * time.Hour)},
		{BaseModel: dbmodels.BaseModel{ID: "undelivered"}, ScheduledAt: now.Add(3 * time.Hour)},
		{BaseModel: dbmodels.BaseModel{ID: "later"}, ScheduledAt: now.Add(72 * time.Hour)},
	}}
	notifier := reminderNotify{delivered: map[string]bool{"soon": true, "later": true}}
	worker := newWorker(store, notifier, 24*time.Hour)

	worker.handle(context.Background())
	require.Equal(t, []string{"soon"}, store.sent)
}
