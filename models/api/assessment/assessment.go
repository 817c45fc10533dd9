package assessmentapimodels

import (
	"math"

	"github.com/pkg/errors"
)

type Question struct {
	Question string `json:"question"`
	Type     string `json:"type"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type QnA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type EvaluateRequest struct {
	Answers []QnA `json:"answers"`
}

func (r EvaluateRequest) Validate() error {
	if len(r.Answers) == 0 {
		return errors.New("не переданы ответы")
	}
	for idx, item := range r.Answers {
		if item.Question == "" {
			return errors.Errorf("не указан вопрос для ответа №%d", idx+1)
		}
	}
	return nil
}

type EvaluatedAnswer struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type EvaluateResponse struct {
	Results      []EvaluatedAnswer `json:"results"`
	AverageScore float64           `json:"average_score"`
	ScoreLabel   string            `json:"score_label"`
	Feedback     string            `json:"feedback"`
}

// SummaryRequest оценка, посчитанная вне платформы. Отсутствующая оценка считается нулевой
type SummaryRequest struct {
	PerformanceScore float64 `json:"performance_score"`
	AiSummary        string  `json:"ai_summary"`
}

func (r SummaryRequest) Validate() error {
	if math.IsNaN(r.PerformanceScore) || math.IsInf(r.PerformanceScore, 0) {
		return errors.New("некорректная оценка")
	}
	return nil
}

type SummaryResponse struct {
	PerformanceScore float64 `json:"performance_score"`
	ScoreLabel       string  `json:"score_label"`
	Summary          string  `json:"summary"`
}
