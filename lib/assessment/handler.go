package assessment

import (
	"context"
	"interview-platform-backend/config"
	activityhandler "interview-platform-backend/lib/activity"
	"interview-platform-backend/lib/aggregator"
	"interview-platform-backend/lib/evaluator"
	filestorage "interview-platform-backend/lib/file-storage"
	questionbank "interview-platform-backend/lib/question-bank"
	"interview-platform-backend/lib/resume"
	"interview-platform-backend/lib/utils/helpers"
	initchecker "interview-platform-backend/lib/utils/init-checker"
	"interview-platform-backend/models"
	assessmentapimodels "interview-platform-backend/models/api/assessment"
	dbmodels "interview-platform-backend/models/db"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const noAnswerFeedback = "No answer provided."

// Provider оценка без привязки к интервью: вопросы по резюме, пакетная оценка ответов, метка для внешней оценки
type Provider interface {
	Questions(ctx context.Context, userID, fileName string, body []byte) (assessmentapimodels.QuestionsResponse, error)
	Evaluate(ctx context.Context, userID string, request assessmentapimodels.EvaluateRequest) (assessmentapimodels.EvaluateResponse, error)
	Summary(userID string, request assessmentapimodels.SummaryRequest) assessmentapimodels.SummaryResponse
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"resume", resume.Instance,
		"filestorage", filestorage.Instance,
		"questionbank", questionbank.Instance,
		"evaluator", evaluator.Instance,
		"activityhandler", activityhandler.Instance,
	)
	Instance = NewProvider(
		resume.Instance,
		filestorage.Instance,
		questionbank.Instance,
		evaluator.Instance,
		activityhandler.Instance,
		config.Conf.AI.PlainQuestionsCount,
	)
}

func NewProvider(extractor resume.Provider, storage filestorage.Provider, builder questionbank.Provider, evaluator evaluator.Provider, activity activityhandler.Provider, questionsCount int) Provider {
	return impl{
		extractor:      extractor,
		storage:        storage,
		builder:        builder,
		evaluator:      evaluator,
		activity:       activity,
		questionsCount: helpers.ClampInt(questionsCount, 2, 3),
	}
}

type impl struct {
	extractor      resume.Provider
	storage        filestorage.Provider
	builder        questionbank.Provider
	evaluator      evaluator.Provider
	activity       activityhandler.Provider
	questionsCount int
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("component", "assessment")
}

func (i impl) Questions(ctx context.Context, userID, fileName string, body []byte) (assessmentapimodels.QuestionsResponse, error) {
	text, err := i.extractor.Extract(fileName, body)
	if err != nil {
		return assessmentapimodels.QuestionsResponse{}, err
	}
	if i.storage != nil {
		if _, err = i.storage.UploadFile(ctx, filestorage.ResumeFolder, fileName, body, ""); err != nil {
			i.getLogger(userID).WithError(err).Warn("не удалось сохранить файл резюме в хранилище")
		}
	}
	questions := i.builder.Build(ctx, text, "", i.questionsCount)
	result := assessmentapimodels.QuestionsResponse{
		Questions: make([]assessmentapimodels.Question, 0, len(questions)),
	}
	for _, question := range questions {
		result.Questions = append(result.Questions, assessmentapimodels.Question{
			Question: question.Question,
			Type:     string(question.Type),
		})
	}
	i.activity.Log(userID, models.ActivityResumeUpload, "Загружено резюме "+fileName)
	return result, nil
}

func (i impl) Evaluate(ctx context.Context, userID string, request assessmentapimodels.EvaluateRequest) (assessmentapimodels.EvaluateResponse, error) {
	results := make([]assessmentapimodels.EvaluatedAnswer, 0, len(request.Answers))
	answers := dbmodels.InterviewAnswers{}
	for idx, item := range request.Answers {
		answerText := strings.TrimSpace(item.Answer)
		if answerText == "" {
			results = append(results, assessmentapimodels.EvaluatedAnswer{
				Question: item.Question,
				Answer:   item.Answer,
				Feedback: noAnswerFeedback,
			})
			continue
		}
		verdict := i.evaluator.Evaluate(ctx, item.Question, answerText, nil)
		results = append(results, assessmentapimodels.EvaluatedAnswer{
			Question: item.Question,
			Answer:   item.Answer,
			Score:    verdict.Score,
			Feedback: verdict.Feedback,
		})
		answers = append(answers, dbmodels.InterviewAnswer{
			QuestionIndex: idx,
			Question:      item.Question,
			Answer:        answerText,
			Timestamp:     time.Now(),
			Score:         verdict.Score,
			Feedback:      verdict.Feedback,
		})
	}
	summary, err := aggregator.Aggregate(answers, len(request.Answers))
	if err != nil {
		summary = aggregator.EmptySummary(len(request.Answers))
	}
	i.activity.Log(userID, models.ActivityAnswersSubmitted, "Отправлены ответы на оценку")
	return assessmentapimodels.EvaluateResponse{
		Results:      results,
		AverageScore: summary.AverageScore,
		ScoreLabel:   summary.ScoreLabel,
		Feedback:     summary.Feedback,
	}, nil
}

// Summary метка считается по оценке как есть, оценка ожидается по шкале 0-100
func (i impl) Summary(userID string, request assessmentapimodels.SummaryRequest) assessmentapimodels.SummaryResponse {
	i.activity.Log(userID, models.ActivityInterviewSummary, "Запрошены итоги интервью")
	return assessmentapimodels.SummaryResponse{
		PerformanceScore: request.PerformanceScore,
		ScoreLabel:       aggregator.ScoreLabel(request.PerformanceScore),
		Summary:          request.AiSummary,
	}
}
