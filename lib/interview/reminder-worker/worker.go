package reminderworker

import (
	"context"
	"interview-platform-backend/config"
	"interview-platform-backend/db"
	interviewstore "interview-platform-backend/lib/interview/store"
	"interview-platform-backend/lib/notify"
	baseworker "interview-platform-backend/lib/utils/base-worker"
	"interview-platform-backend/lib/utils/helpers"
	"time"
)

func StartWorker(ctx context.Context) {
	i := newWorker(
		interviewstore.NewInstance(db.DB),
		notify.Instance,
		time.Duration(config.Conf.Interview.ReminderAheadInHours)*time.Hour,
	)
	interval := time.Duration(config.Conf.Interview.ReminderIntervalMin) * time.Minute
	i.BaseImpl = *baseworker.NewInstance("InterviewReminderWorker", 30*time.Second, interval)
	go i.Run(ctx, i.handle)
}

func newWorker(store interviewstore.Provider, notifier notify.Provider, ahead time.Duration) *impl {
	return &impl{
		store:  store,
		notify: notifier,
		ahead:  ahead,
	}
}

type impl struct {
	baseworker.BaseImpl
	store  interviewstore.Provider
	notify notify.Provider
	ahead  time.Duration
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := time.Now()
	list, err := i.store.ListForReminder(now, now.Add(i.ahead))
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка интервью для напоминания")
		return
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		if !i.notify.InterviewReminder(rec) {
			continue
		}
		err = i.store.SetReminderSent(rec.ID, time.Now())
		if err != nil {
			logger.
				WithError(err).
				WithField("interview_id", rec.ID).
				Error("ошибка сохранения отметки о напоминании")
		}
	}
}
