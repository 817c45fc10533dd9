package aggregator

import (
	"fmt"
	"strings"

	"interview-platform-backend/lib/apperr"
	"interview-platform-backend/lib/utils/helpers"
	dbmodels "interview-platform-backend/models/db"
)

const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelAverage   = "Average"
	LabelPoor      = "Poor"

	NoAnswersFeedback = "No answers were recorded."
)

// ScoreLabel оценка по шкале 0-100 в текстовую метку
func ScoreLabel(score float64) string {
	switch {
	case score >= 90:
		return LabelExcellent
	case score >= 75:
		return LabelGood
	case score >= 50:
		return LabelAverage
	default:
		return LabelPoor
	}
}

// Aggregate итог интервью по записанным ответам. Средняя оценка по шкале 0-10, метка по шкале 0-100
func Aggregate(answers dbmodels.InterviewAnswers, totalQuestions int) (dbmodels.InterviewSummary, error) {
	if len(answers) == 0 {
		return dbmodels.InterviewSummary{}, apperr.EmptyAggregation("нет ответов для подведения итогов")
	}
	sum := 0.0
	for _, answer := range answers {
		sum += helpers.Clamp(answer.Score, 0, 10)
	}
	average := helpers.Round2(helpers.Clamp(sum/float64(len(answers)), 0, 10))
	label := ScoreLabel(average * 10)
	return dbmodels.InterviewSummary{
		AverageScore:   average,
		ScoreLabel:     label,
		Feedback:       composeFeedback(average, label, answers, totalQuestions),
		AnsweredCount:  len(answers),
		TotalQuestions: totalQuestions,
	}, nil
}

// EmptySummary итог интервью, в котором все вопросы пропущены
func EmptySummary(totalQuestions int) dbmodels.InterviewSummary {
	return dbmodels.InterviewSummary{
		AverageScore:   0,
		ScoreLabel:     LabelPoor,
		Feedback:       NoAnswersFeedback,
		AnsweredCount:  0,
		TotalQuestions: totalQuestions,
	}
}

func composeFeedback(average float64, label string, answers dbmodels.InterviewAnswers, totalQuestions int) string {
	parts := []string{fmt.Sprintf("Overall performance: %s (%.2f/10).", label, average)}
	if totalQuestions > len(answers) {
		parts = append(parts, fmt.Sprintf("Answered %d of %d questions.", len(answers), totalQuestions))
	}
	for _, answer := range answers {
		feedback := strings.TrimSpace(answer.Feedback)
		if feedback == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("Q%d: %s", answer.QuestionIndex+1, feedback))
	}
	return strings.Join(parts, "\n")
}
