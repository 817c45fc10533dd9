package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	gpthandler "interview-platform-backend/lib/gpt"
	"interview-platform-backend/lib/utils/helpers"
	dbmodels "interview-platform-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	FallbackFeedback = "Unable to evaluate."
	MinScore         = 0.0
	MaxScore         = 10.0

	sysPromt = "You're an expert interviewer. You score candidate answers from 0 to 10 and give one-line feedback."

	userPromtTemplate = `Score the answer below from 0 to 10 and give one-line feedback.

Question: %s
Answer: %s
%s
Respond only with JSON:
{"score": 8, "feedback": "Good clarity, but missing details."}`

	deliveryTemplate = `
The answer was spoken. Take the delivery into account, not only the content:
- filler words: %d
- silence ratio: %.2f
- tempo (BPM): %.1f
- average pitch (Hz): %.1f
`
)

type Verdict struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

func Fallback() Verdict {
	return Verdict{Score: 0, Feedback: FallbackFeedback}
}

type Provider interface {
	// Evaluate оценка ответа, аудио-показатели необязательны. Никогда не возвращает ошибку: при сбое Fallback()
	Evaluate(ctx context.Context, question, answer string, features *dbmodels.AudioFeatures) Verdict
}

var Instance Provider

func NewHandler(gpt gpthandler.Provider) {
	Instance = NewEvaluator(gpt)
}

func NewEvaluator(gpt gpthandler.Provider) Provider {
	return impl{
		gpt: gpt,
	}
}

type impl struct {
	gpt gpthandler.Provider
}

func (i impl) Evaluate(ctx context.Context, question, answer string, features *dbmodels.AudioFeatures) Verdict {
	logger := log.
		WithField("component", "evaluator").
		WithField("interview_id", gpthandler.ExtractLogData(ctx).InterviewID)
	if i.gpt == nil {
		logger.Warn("ИИ недоступен, ответ не оценен")
		return Fallback()
	}
	response, err := i.gpt.GenerateByPromtAndText(ctx, sysPromt, BuildPromt(question, answer, features))
	if err != nil {
		logger.WithError(err).Warn("ошибка оценки ответа")
		return Fallback()
	}
	verdict, err := ParseVerdict(response)
	if err != nil {
		logger.WithError(err).Warn("ошибка разбора оценки ответа")
		return Fallback()
	}
	return verdict
}

func BuildPromt(question, answer string, features *dbmodels.AudioFeatures) string {
	delivery := ""
	if features != nil {
		delivery = fmt.Sprintf(deliveryTemplate, features.FillerCount, features.SilenceRatio, features.Tempo, features.AvgPitch)
	}
	return fmt.Sprintf(userPromtTemplate, question, answer, delivery)
}

// ParseVerdict разбор ответа ИИ. Оценка может быть строкой, значение вне [0,10] приводится к границе
func ParseVerdict(response string) (Verdict, error) {
	var raw struct {
		Score    json.RawMessage `json:"score"`
		Feedback interface{}     `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(helpers.ExtractJSON(response)), &raw); err != nil {
		return Verdict{}, errors.Wrapf(err, "ответ ИИ не является json: %v", response)
	}
	if len(raw.Score) == 0 || string(raw.Score) == "null" {
		return Verdict{}, errors.Errorf("в ответе ИИ нет оценки: %v", response)
	}
	score, err := parseScore(raw.Score)
	if err != nil {
		return Verdict{}, err
	}
	feedback := ""
	switch value := raw.Feedback.(type) {
	case string:
		feedback = strings.TrimSpace(value)
	case nil:
	default:
		feedback = fmt.Sprint(value)
	}
	return Verdict{
		Score:    helpers.Clamp(score, MinScore, MaxScore),
		Feedback: feedback,
	}, nil
}

func parseScore(raw json.RawMessage) (float64, error) {
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, errors.Errorf("некорректная оценка: %s", string(raw))
	}
	text = strings.TrimSpace(text)
	// "7/10"
	if pos := strings.Index(text, "/"); pos > 0 {
		text = strings.TrimSpace(text[:pos])
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errors.Errorf("некорректная оценка: %s", text)
	}
	if math.IsNaN(number) {
		return 0, nil
	}
	return number, nil
}
