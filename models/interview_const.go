package models

type InterviewStatus string

const (
	InterviewStatusScheduled      InterviewStatus = "scheduled"
	InterviewStatusResumeUploaded InterviewStatus = "resume_uploaded"
	InterviewStatusInProgress     InterviewStatus = "in_progress"
	InterviewStatusCompleted      InterviewStatus = "completed"
)

// порядок статусов, переход только вперед
var interviewStatusOrder = map[InterviewStatus]int{
	InterviewStatusScheduled:      0,
	InterviewStatusResumeUploaded: 1,
	InterviewStatusInProgress:     2,
	InterviewStatusCompleted:      3,
}

var interviewStatusHumanName = map[InterviewStatus]string{
	InterviewStatusScheduled:      "Запланировано",
	InterviewStatusResumeUploaded: "Резюме загружено",
	InterviewStatusInProgress:     "Идет интервью",
	InterviewStatusCompleted:      "Завершено",
}

func (s InterviewStatus) ToHuman() string {
	if human, exist := interviewStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// CanMoveTo проверяет, что переход не возвращает интервью назад.
// Повторный переход в тот же статус допустим только для resume_uploaded (повторная загрузка резюме).
func (s InterviewStatus) CanMoveTo(next InterviewStatus) bool {
	cur, ok := interviewStatusOrder[s]
	if !ok {
		return false
	}
	nxt, ok := interviewStatusOrder[next]
	if !ok {
		return false
	}
	if cur == nxt {
		return s == InterviewStatusResumeUploaded || s == InterviewStatusInProgress
	}
	return nxt == cur+1
}

type QuestionType string

const (
	QuestionTypeTechnical   QuestionType = "technical"
	QuestionTypeBehavioral  QuestionType = "behavioral"
	QuestionTypeSituational QuestionType = "situational"
)

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeTechnical, QuestionTypeBehavioral, QuestionTypeSituational:
		return true
	}
	return false
}

type ActivityType string

const (
	ActivityUserRegistration      ActivityType = "user_registration"
	ActivityUserLogin             ActivityType = "user_login"
	ActivityProfileUpdate         ActivityType = "profile_update"
	ActivityJobCreation           ActivityType = "job_creation"
	ActivityJobUpdate             ActivityType = "job_update"
	ActivityJobDelete             ActivityType = "job_delete"
	ActivityInterviewScheduled    ActivityType = "interview_scheduled"
	ActivityInterviewResumeUpload ActivityType = "interview_resume_upload"
	ActivityInterviewStarted      ActivityType = "interview_started"
	ActivityInterviewAnswer       ActivityType = "interview_answer"
	ActivityInterviewCompleted    ActivityType = "interview_completed"
	ActivityInterviewMessage      ActivityType = "interview_message"
	ActivityResumeUpload          ActivityType = "resume_upload"
	ActivityAnswersSubmitted      ActivityType = "answers_submitted"
	ActivityInterviewSummary      ActivityType = "interview_summary"
)
