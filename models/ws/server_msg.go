package wsmodels

type MessageCode string

const (
	CodeInterviewScheduled MessageCode = "interview_scheduled"
	CodeQuestionsReady     MessageCode = "questions_ready"
	CodeInterviewCompleted MessageCode = "interview_completed"
	CodeInterviewReminder  MessageCode = "interview_reminder"
)

type ServerMessage struct {
	ToUserID    string      `json:"-"`
	Time        string      `json:"time"`                   // время события
	Code        MessageCode `json:"code"`                   // код события
	Msg         string      `json:"msg"`                    // текст события
	InterviewID string      `json:"interview_id,omitempty"` // интервью, к которому относится событие
}
