package questionbank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gpthandler "interview-platform-backend/lib/gpt"
	"interview-platform-backend/lib/utils/helpers"
	"interview-platform-backend/models"
	dbmodels "interview-platform-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	sysPromt = "You are an experienced technical interviewer. You prepare interview questions based on a candidate resume and a job posting."

	userPromtTemplate = `Generate %d interview questions from the following resume.
Include type: technical, behavioral, or situational.
%s
Resume:
"""%s"""

Respond in JSON format like:
{
  "questions": [
    {
      "question": "What is your experience with Django?",
      "type": "technical"
    }
  ]
}`
)

type Provider interface {
	// Build вопросы по резюме и описанию вакансии. Никогда не возвращает пустой список
	Build(ctx context.Context, resumeText, jobContext string, count int) []dbmodels.InterviewQuestion
}

var Instance Provider

func NewHandler(gpt gpthandler.Provider) {
	Instance = NewBuilder(gpt)
}

func NewBuilder(gpt gpthandler.Provider) Provider {
	return impl{
		gpt: gpt,
	}
}

type impl struct {
	gpt gpthandler.Provider
}

// DefaultQuestions вопросы на случай, если ИИ не смог сгенерировать свои
func DefaultQuestions() []dbmodels.InterviewQuestion {
	return []dbmodels.InterviewQuestion{
		{Question: "Tell me about a technical project you're proud of.", Type: models.QuestionTypeTechnical},
		{Question: "Describe a time you worked under pressure.", Type: models.QuestionTypeBehavioral},
		{Question: "How would you resolve a team conflict?", Type: models.QuestionTypeSituational},
	}
}

func (i impl) Build(ctx context.Context, resumeText, jobContext string, count int) []dbmodels.InterviewQuestion {
	logger := log.
		WithField("component", "question_bank").
		WithField("interview_id", gpthandler.ExtractLogData(ctx).InterviewID)
	if count <= 0 {
		count = len(DefaultQuestions())
	}
	if i.gpt == nil {
		logger.Warn("ИИ недоступен, используются вопросы по умолчанию")
		return DefaultQuestions()
	}
	answer, err := i.gpt.GenerateByPromtAndText(ctx, sysPromt, buildPromt(resumeText, jobContext, count))
	if err != nil {
		logger.WithError(err).Warn("ошибка генерации вопросов, используются вопросы по умолчанию")
		return DefaultQuestions()
	}
	questions, err := ParseQuestions(answer)
	if err != nil {
		logger.WithError(err).Warn("ошибка разбора вопросов от ИИ, используются вопросы по умолчанию")
		return DefaultQuestions()
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions
}

func buildPromt(resumeText, jobContext string, count int) string {
	jobPart := ""
	if strings.TrimSpace(jobContext) != "" {
		jobPart = fmt.Sprintf("The candidate applies for this job, tailor the questions to it:\n%s\n", jobContext)
	}
	return fmt.Sprintf(userPromtTemplate, count, jobPart, resumeText)
}

// ParseQuestions разбор ответа ИИ. Вопрос может прийти объектом или строкой, неизвестный тип заменяется на technical
func ParseQuestions(answer string) ([]dbmodels.InterviewQuestion, error) {
	raw := helpers.ExtractJSON(answer)
	var items []json.RawMessage
	var wrapper struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err == nil && wrapper.Questions != nil {
		items = wrapper.Questions
	} else if arrErr := json.Unmarshal([]byte(helpers.StripFence(answer)), &items); arrErr != nil {
		if err != nil {
			return nil, errors.Wrapf(err, "ответ ИИ не является json: %v", answer)
		}
		return nil, errors.Errorf("в ответе ИИ нет ключа questions: %v", answer)
	}

	result := make([]dbmodels.InterviewQuestion, 0, len(items))
	for _, item := range items {
		question, ok := parseQuestion(item)
		if ok {
			result = append(result, question)
		}
	}
	if len(result) == 0 {
		return nil, errors.New("ИИ не вернул ни одного вопроса")
	}
	return result, nil
}

func parseQuestion(item json.RawMessage) (dbmodels.InterviewQuestion, bool) {
	var text string
	if err := json.Unmarshal(item, &text); err == nil {
		text = strings.TrimSpace(text)
		return dbmodels.InterviewQuestion{Question: text, Type: models.QuestionTypeTechnical}, text != ""
	}
	var obj struct {
		Question string `json:"question"`
		Type     string `json:"type"`
	}
	if err := json.Unmarshal(item, &obj); err != nil {
		return dbmodels.InterviewQuestion{}, false
	}
	text = strings.TrimSpace(obj.Question)
	if text == "" {
		return dbmodels.InterviewQuestion{}, false
	}
	return dbmodels.InterviewQuestion{Question: text, Type: NormalizeType(obj.Type)}, true
}

func NormalizeType(value string) models.QuestionType {
	qType := models.QuestionType(strings.ToLower(strings.TrimSpace(value)))
	if qType.IsValid() {
		return qType
	}
	return models.QuestionTypeTechnical
}
