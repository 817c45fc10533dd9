package assessment

import (
	"context"
	"interview-platform-backend/lib/apperr"
	"interview-platform-backend/lib/evaluator"
	"interview-platform-backend/models"
	activityapimodels "interview-platform-backend/models/api/activity"
	assessmentapimodels "interview-platform-backend/models/api/assessment"
	dbmodels "interview-platform-backend/models/db"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type textExtractor struct{}

func (textExtractor) Extract(fileName string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", apperr.Extraction(errors.New("empty"), "файл резюме пуст")
	}
	return string(body), nil
}

type builderMock struct {
	count int
}

func (b *builderMock) Build(ctx context.Context, resumeText, jobContext string, count int) []dbmodels.InterviewQuestion {
	b.count = count
	return []dbmodels.InterviewQuestion{
		{Question: "Q1", Type: models.QuestionTypeTechnical},
		{Question: "Q2", Type: models.QuestionTypeBehavioral},
	}
}

type evaluatorMock struct {
	calls int
}

func (e *evaluatorMock) Evaluate(ctx context.Context, question, answer string, features *dbmodels.AudioFeatures) evaluator.Verdict {
	e.calls++
	return evaluator.Verdict{Score: 6, Feedback: "Fine."}
}

type noopActivity struct{}

func (noopActivity) Log(userID string, activityType models.ActivityType, description string) {}

func (noopActivity) List(userID string, role models.UserRole) ([]activityapimodels.ActivityView, error) {
	return nil, nil
}

func TestAssessment(t *testing.T) {
	ctx := context.Background()
	builder := &builderMock{}
	eval := &evaluatorMock{}
	provider := NewProvider(textExtractor{}, nil, builder, eval, noopActivity{}, 5)

	t.Run("вопросы по резюме", func(t *testing.T) {
		resp, err := provider.Questions(ctx, "u1", "cv.txt", []byte("Go developer"))
		require.NoError(t, err)
		require.Len(t, resp.Questions, 2)
		require.Equal(t, "behavioral", resp.Questions[1].Type)
		require.Equal(t, 3, builder.count)
	})
	t.Run("пустое резюме", func(t *testing.T) {
		_, err := provider.Questions(ctx, "u1", "cv.txt", nil)
		require.True(t, apperr.Is(err, apperr.KindExtraction))
	})
	t.Run("пакетная оценка", func(t *testing.T) {
		resp, err := provider.Evaluate(ctx, "u1", assessmentapimodels.EvaluateRequest{Answers: []assessmentapimodels.QnA{
			{Question: "Q1", Answer: "A1"},
			{Question: "Q2", Answer: " "},
		}})
		require.NoError(t, err)
		require.Equal(t, 1, eval.calls)
		require.Len(t, resp.Results, 2)
		require.Equal(t, noAnswerFeedback, resp.Results[1].Feedback)
		require.Equal(t, 6.0, resp.AverageScore)
		require.Equal(t, "Average", resp.ScoreLabel)
	})
	t.Run("все ответы пустые", func(t *testing.T) {
		resp, err := provider.Evaluate(ctx, "u1", assessmentapimodels.EvaluateRequest{Answers: []assessmentapimodels.QnA{{Question: "Q1"}}})
		require.NoError(t, err)
		require.Equal(t, 0.0, resp.AverageScore)
		require.Equal(t, "Poor", resp.ScoreLabel)
	})
	t.Run("метка внешней оценки", func(t *testing.T) {
		cases := map[float64]string{95: "Excellent", 90: "Excellent", 89.99: "Good", 75: "Good", 74.99: "Average", 50: "Average", 0: "Poor"}
		for score, label := range cases {
			resp := provider.Summary("u1", assessmentapimodels.SummaryRequest{PerformanceScore: score, AiSummary: "text"})
			require.Equal(t, label, resp.ScoreLabel, "score %v", score)
			require.Equal(t, "text", resp.Summary)
		}
	})
}
