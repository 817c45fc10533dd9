package notify

import (
	"fmt"
	"interview-platform-backend/config"
	"interview-platform-backend/lib/smtp"
	connectionhub "interview-platform-backend/lib/ws/hub/connection-hub"
	dbmodels "interview-platform-backend/models/db"
	wsmodels "interview-platform-backend/models/ws"
	"time"

	log "github.com/sirupsen/logrus"
)

const timeLayout = "02.01.2006 15:04"

// Provider уведомления кандидата: письмо и пуш в websocket. Ошибки доставки только логируются
type Provider interface {
	InterviewScheduled(rec dbmodels.Interview)
	QuestionsReady(rec dbmodels.Interview)
	InterviewCompleted(rec dbmodels.Interview)
	InterviewReminder(rec dbmodels.Interview) bool
}

var Instance Provider

func NewHandler() {
	Instance = NewProvider(smtp.Instance, connectionhub.Instance, config.Conf.Notify.SenderEmail)
}

func NewProvider(mail smtp.Provider, hub connectionhub.Provider, senderEmail string) Provider {
	return impl{
		mail:        mail,
		hub:         hub,
		senderEmail: senderEmail,
	}
}

type impl struct {
	mail        smtp.Provider
	hub         connectionhub.Provider
	senderEmail string
}

func (i impl) getLogger(rec dbmodels.Interview) *log.Entry {
	return log.
		WithField("interview_id", rec.ID).
		WithField("candidate_id", rec.CandidateID)
}

func (i impl) InterviewScheduled(rec dbmodels.Interview) {
	text := fmt.Sprintf("Интервью на вакансию %q назначено на %s", jobTitle(rec), rec.ScheduledAt.Format(timeLayout))
	i.push(rec, wsmodels.CodeInterviewScheduled, text)
	i.sendMail(rec, "Интервью назначено", text)
}

func (i impl) QuestionsReady(rec dbmodels.Interview) {
	text := fmt.Sprintf("Вопросы для интервью %q готовы (%d)", jobTitle(rec), len(rec.Questions))
	i.push(rec, wsmodels.CodeQuestionsReady, text)
}

func (i impl) InterviewCompleted(rec dbmodels.Interview) {
	text := fmt.Sprintf("Интервью на вакансию %q завершено", jobTitle(rec))
	if rec.Summary != nil {
		text = fmt.Sprintf("%s. Итоговая оценка: %.2f (%s)", text, rec.Summary.AverageScore, rec.Summary.ScoreLabel)
	}
	i.push(rec, wsmodels.CodeInterviewCompleted, text)
	i.sendMail(rec, "Интервью завершено", text)
}

// InterviewReminder возвращает true, если напоминание отправлено хотя бы одним способом
func (i impl) InterviewReminder(rec dbmodels.Interview) bool {
	text := fmt.Sprintf("Напоминание: интервью на вакансию %q состоится %s", jobTitle(rec), rec.ScheduledAt.Format(timeLayout))
	pushed := i.push(rec, wsmodels.CodeInterviewReminder, text)
	mailed := i.sendMail(rec, "Напоминание об интервью", text)
	return pushed || mailed
}

func (i impl) push(rec dbmodels.Interview, code wsmodels.MessageCode, text string) bool {
	if i.hub == nil || !i.hub.IsConnected(rec.CandidateID) {
		return false
	}
	i.hub.SendMessage(wsmodels.ServerMessage{
		ToUserID:    rec.CandidateID,
		Time:        time.Now().Format("02.01.2006 15:04:05"),
		Code:        code,
		Msg:         text,
		InterviewID: rec.ID,
	})
	return true
}

func (i impl) sendMail(rec dbmodels.Interview, subject, text string) bool {
	if i.mail == nil || rec.Candidate == nil || rec.Candidate.Email == "" {
		return false
	}
	err := i.mail.SendEMail(i.senderEmail, rec.Candidate.Email, text, subject)
	if err != nil {
		i.getLogger(rec).WithError(err).Warn("ошибка отправки уведомления на почту")
		return false
	}
	return true
}

func jobTitle(rec dbmodels.Interview) string {
	if rec.Job == nil {
		return ""
	}
	return rec.Job.Title
}
