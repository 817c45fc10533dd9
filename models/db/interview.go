package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"interview-platform-backend/models"
	interviewapimodels "interview-platform-backend/models/api/interview"
	"time"

	"github.com/pkg/errors"
)

type Interview struct {
	BaseModel
	CandidateID          string                 `gorm:"type:varchar(36);index"`
	Candidate            *User                  `gorm:"foreignKey:CandidateID"`
	JobID                string                 `gorm:"type:varchar(36);index"`
	Job                  *Job                   `gorm:"foreignKey:JobID"`
	Status               models.InterviewStatus `gorm:"type:varchar(50);index"`
	Questions            InterviewQuestions     `gorm:"type:jsonb"`
	CurrentQuestionIndex int
	Answers              InterviewAnswers    `gorm:"type:jsonb"`
	ResumeFileKey        string              `gorm:"type:varchar(255)"`
	ResumeText           string              `gorm:"type:text"`
	ScheduledAt          time.Time           `gorm:"index"`
	StartedAt            *time.Time
	CompletedAt          *time.Time
	Summary              *InterviewSummary   `gorm:"type:jsonb"`
	Transcript           InterviewTranscript `gorm:"type:jsonb"`
	Version              int                 `gorm:"not null;default:0"` // счетчик для оптимистичной блокировки
	ReminderSentAt       *time.Time
}

// CurrentQuestion текущий вопрос с проверкой границ
func (r Interview) CurrentQuestion() (InterviewQuestion, bool) {
	if r.CurrentQuestionIndex < 0 || r.CurrentQuestionIndex >= len(r.Questions) {
		return InterviewQuestion{}, false
	}
	return r.Questions[r.CurrentQuestionIndex], true
}

func (r Interview) IsOwner(userID string) bool {
	return userID != "" && r.CandidateID == userID
}

func (r Interview) ToModel() interviewapimodels.InterviewView {
	result := interviewapimodels.InterviewView{
		ID:                   r.ID,
		CandidateID:          r.CandidateID,
		JobID:                r.JobID,
		Status:               string(r.Status),
		StatusName:           r.Status.ToHuman(),
		Questions:            r.Questions.ToModel(),
		CurrentQuestionIndex: r.CurrentQuestionIndex,
		Answers:              make([]interviewapimodels.Answer, 0, len(r.Answers)),
		Transcript:           make([]interviewapimodels.Message, 0, len(r.Transcript)),
		ScheduledAt:          r.ScheduledAt,
		StartedAt:            r.StartedAt,
		CompletedAt:          r.CompletedAt,
		CreatedAt:            r.CreatedAt,
	}
	if r.Candidate != nil {
		result.CandidateName = r.Candidate.Name
	}
	if r.Job != nil {
		result.JobTitle = r.Job.Title
		result.Company = r.Job.Company
	}
	for _, answer := range r.Answers {
		result.Answers = append(result.Answers, answer.ToModel())
	}
	for _, msg := range r.Transcript {
		result.Transcript = append(result.Transcript, msg.ToModel())
	}
	if r.Summary != nil {
		summary := r.Summary.ToModel()
		result.Summary = &summary
	}
	return result
}

type InterviewQuestion struct {
	Question string              `json:"question"`
	Type     models.QuestionType `json:"type"`
}

func (r InterviewQuestion) ToModel() interviewapimodels.Question {
	return interviewapimodels.Question{
		Question: r.Question,
		Type:     string(r.Type),
	}
}

type InterviewQuestions []InterviewQuestion

func (j InterviewQuestions) ToModel() []interviewapimodels.Question {
	result := make([]interviewapimodels.Question, 0, len(j))
	for _, item := range j {
		result = append(result, item.ToModel())
	}
	return result
}

func (j InterviewQuestions) Value() (driver.Value, error) {
	if j == nil {
		j = InterviewQuestions{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *InterviewQuestions) Scan(value interface{}) error {
	return scanJSON(value, j)
}

type AudioFeatures struct {
	FillerCount     int     `json:"filler_count"`
	SilenceRatio    float64 `json:"silence_ratio"`
	Tempo           float64 `json:"tempo"`
	AvgPitch        float64 `json:"avg_pitch"`
	ConfidenceScore float64 `json:"confidence_score"`
}

type InterviewAnswer struct {
	QuestionIndex int            `json:"question_index"`
	Question      string         `json:"question"`
	Answer        string         `json:"answer"`
	Timestamp     time.Time      `json:"timestamp"`
	AudioFeatures *AudioFeatures `json:"audio_features,omitempty"`
	AudioFileKey  string         `json:"audio_file_key,omitempty"`
	Score         float64        `json:"score"`
	Feedback      string         `json:"feedback"`
}

func (r InterviewAnswer) ToModel() interviewapimodels.Answer {
	result := interviewapimodels.Answer{
		QuestionIndex: r.QuestionIndex,
		Question:      r.Question,
		Answer:        r.Answer,
		Timestamp:     r.Timestamp,
		Score:         r.Score,
		Feedback:      r.Feedback,
	}
	if r.AudioFeatures != nil {
		result.AudioFeatures = &interviewapimodels.AudioFeatures{
			FillerCount:     r.AudioFeatures.FillerCount,
			SilenceRatio:    r.AudioFeatures.SilenceRatio,
			Tempo:           r.AudioFeatures.Tempo,
			AvgPitch:        r.AudioFeatures.AvgPitch,
			ConfidenceScore: r.AudioFeatures.ConfidenceScore,
		}
	}
	return result
}

type InterviewAnswers []InterviewAnswer

func (j InterviewAnswers) Value() (driver.Value, error) {
	if j == nil {
		j = InterviewAnswers{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *InterviewAnswers) Scan(value interface{}) error {
	return scanJSON(value, j)
}

type InterviewSummary struct {
	AverageScore   float64 `json:"average_score"`
	ScoreLabel     string  `json:"score_label"`
	Feedback       string  `json:"feedback"`
	AnsweredCount  int     `json:"answered_count"`
	TotalQuestions int     `json:"total_questions"`
}

func (j InterviewSummary) ToModel() interviewapimodels.Summary {
	return interviewapimodels.Summary{
		AverageScore:   j.AverageScore,
		ScoreLabel:     j.ScoreLabel,
		Feedback:       j.Feedback,
		AnsweredCount:  j.AnsweredCount,
		TotalQuestions: j.TotalQuestions,
	}
}

func (j InterviewSummary) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *InterviewSummary) Scan(value interface{}) error {
	return scanJSON(value, j)
}

type TranscriptMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (r TranscriptMessage) ToModel() interviewapimodels.Message {
	return interviewapimodels.Message{
		ID:        r.ID,
		Sender:    r.Sender,
		Message:   r.Message,
		Timestamp: r.Timestamp,
	}
}

type InterviewTranscript []TranscriptMessage

func (j InterviewTranscript) Value() (driver.Value, error) {
	if j == nil {
		j = InterviewTranscript{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *InterviewTranscript) Scan(value interface{}) error {
	return scanJSON(value, j)
}

func scanJSON(value interface{}, out interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, out)
	case string:
		return json.Unmarshal([]byte(v), out)
	default:
		return errors.Errorf("неподдерживаемый тип jsonb поля: %T", value)
	}
}
