package interviewapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type CreateRequest struct {
	JobID       string    `json:"job_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CandidateID string    `json:"candidate_id"` // заполняется только администратором
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("не указана вакансия")
	}
	if r.ScheduledAt.IsZero() {
		return errors.New("не указана дата интервью")
	}
	return nil
}

type Question struct {
	Question string `json:"question"`
	Type     string `json:"type"`
}

type AudioFeatures struct {
	FillerCount     int     `json:"filler_count"`
	SilenceRatio    float64 `json:"silence_ratio"`
	Tempo           float64 `json:"tempo"`
	AvgPitch        float64 `json:"avg_pitch"`
	ConfidenceScore float64 `json:"confidence_score"`
}

type Answer struct {
	QuestionIndex int            `json:"question_index"`
	Question      string         `json:"question"`
	Answer        string         `json:"answer"`
	Timestamp     time.Time      `json:"timestamp"`
	AudioFeatures *AudioFeatures `json:"audio_features,omitempty"`
	Score         float64        `json:"score"`
	Feedback      string         `json:"feedback"`
}

type Summary struct {
	AverageScore   float64 `json:"average_score"`
	ScoreLabel     string  `json:"score_label"`
	Feedback       string  `json:"feedback"`
	AnsweredCount  int     `json:"answered_count"`
	TotalQuestions int     `json:"total_questions"`
}

type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type InterviewView struct {
	ID                   string     `json:"id"`
	CandidateID          string     `json:"candidate_id"`
	CandidateName        string     `json:"candidate_name,omitempty"`
	JobID                string     `json:"job_id"`
	JobTitle             string     `json:"job_title,omitempty"`
	Company              string     `json:"company,omitempty"`
	Status               string     `json:"status"`
	StatusName           string     `json:"status_name"`
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	Answers              []Answer   `json:"answers"`
	Transcript           []Message  `json:"transcript"`
	ScheduledAt          time.Time  `json:"scheduled_at"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	Summary              *Summary   `json:"summary,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type InterviewFilter struct {
	Status      string     `json:"status"`
	JobID       string     `json:"job_id"`
	CandidateID string     `json:"candidate_id"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
}

type UploadResumeResponse struct {
	Questions []Question `json:"questions"`
	Count     int        `json:"count"`
}

type StartResponse struct {
	Question       Question `json:"question"`
	QuestionIndex  int      `json:"question_index"`
	TotalQuestions int      `json:"total_questions"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

type SubmitAnswerResponse struct {
	Completed       bool      `json:"completed"`
	CurrentQuestion *Question `json:"current_question,omitempty"`
	QuestionIndex   int       `json:"question_index"`
	TotalQuestions  int       `json:"total_questions"`
	LastAnswer      *Answer   `json:"last_answer,omitempty"` // nil если вопрос пропущен
	Summary         *Summary  `json:"summary,omitempty"`
}

type MessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

func (r MessageRequest) Validate() error {
	if strings.TrimSpace(r.Sender) == "" || strings.TrimSpace(r.Message) == "" {
		return errors.New("необходимо указать отправителя и текст сообщения")
	}
	return nil
}

type TtsRequest struct {
	Text string `json:"text"`
}

func (r TtsRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("не указан текст для озвучивания")
	}
	return nil
}

type TtsResponse struct {
	AudioKey string `json:"audio_key"`
	AudioUrl string `json:"audio_url"`
}

type SttResponse struct {
	Text string `json:"text"`
}
