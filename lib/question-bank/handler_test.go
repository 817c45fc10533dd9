package questionbank

import (
	"context"
	"strings"
	"testing"

	"interview-platform-backend/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeGpt struct {
	answer   string
	err      error
	lastText string
}

func (f *fakeGpt) GenerateByPromtAndText(ctx context.Context, sysPromt, text string) (string, error) {
	f.lastText = text
	return f.answer, f.err
}

func TestBuild(t *testing.T) {
	ctx := context.TODO()

	t.Run(`valid json with fence`, func(t *testing.T) {
		gpt := &fakeGpt{answer: "```json\n{\"questions\":[{\"question\":\"What is Go?\",\"type\":\"Technical\"},{\"question\":\"A conflict?\",\"type\":\"behavioral\"}]}\n```"}
		list := NewBuilder(gpt).Build(ctx, "Go developer, 5 years", "", 3)
		require.Len(t, list, 2)
		require.Equal(t, "What is Go?", list[0].Question)
		require.Equal(t, models.QuestionTypeTechnical, list[0].Type)
		require.Equal(t, models.QuestionTypeBehavioral, list[1].Type)
		require.Contains(t, gpt.lastText, "Go developer, 5 years")
		require.NotContains(t, gpt.lastText, "applies for this job")
	})

	t.Run(`job context is embedded`, func(t *testing.T) {
		gpt := &fakeGpt{answer: `{"questions":[{"question":"Q1","type":"situational"}]}`}
		NewBuilder(gpt).Build(ctx, "resume", "Job Title: Backend", 5)
		require.Contains(t, gpt.lastText, "Job Title: Backend")
		require.Contains(t, gpt.lastText, "Generate 5 interview questions")
	})

	t.Run(`result truncated to count`, func(t *testing.T) {
		gpt := &fakeGpt{answer: `{"questions":["one","two","three","four"]}`}
		list := NewBuilder(gpt).Build(ctx, "resume", "", 2)
		require.Len(t, list, 2)
		require.Equal(t, "one", list[0].Question)
		require.Equal(t, models.QuestionTypeTechnical, list[0].Type)
	})

	t.Run(`malformed json gives defaults`, func(t *testing.T) {
		list := NewBuilder(&fakeGpt{answer: "Sure! Here are questions: 1. What?"}).Build(ctx, "resume", "", 3)
		require.Equal(t, DefaultQuestions(), list)
		require.Len(t, list, 3)
	})

	t.Run(`missing key gives defaults`, func(t *testing.T) {
		list := NewBuilder(&fakeGpt{answer: `{"items":[{"question":"x"}]}`}).Build(ctx, "resume", "", 3)
		require.Equal(t, DefaultQuestions(), list)
	})

	t.Run(`empty items give defaults`, func(t *testing.T) {
		list := NewBuilder(&fakeGpt{answer: `{"questions":[{"question":"  ","type":"technical"},{"type":"behavioral"}]}`}).Build(ctx, "resume", "", 3)
		require.Equal(t, DefaultQuestions(), list)
	})

	t.Run(`capability error gives defaults`, func(t *testing.T) {
		list := NewBuilder(&fakeGpt{err: errors.New("timeout")}).Build(ctx, "resume", "", 3)
		require.Equal(t, DefaultQuestions(), list)
		list = NewBuilder(nil).Build(ctx, "resume", "", 3)
		require.Equal(t, DefaultQuestions(), list)
	})

	t.Run(`default list is mixed`, func(t *testing.T) {
		types := map[models.QuestionType]bool{}
		for _, q := range DefaultQuestions() {
			require.False(t, strings.TrimSpace(q.Question) == "")
			types[q.Type] = true
		}
		require.Len(t, types, 3)
	})

	t.Run(`defaults do not assume a technology`, func(t *testing.T) {
		for _, q := range DefaultQuestions() {
			for _, tech := range []string{"python", "java", "golang", "react", "sql"} {
				require.NotContains(t, strings.ToLower(q.Question), tech)
			}
		}
		require.Equal(t, "Tell me about a technical project you're proud of.", DefaultQuestions()[0].Question)
	})
}

func TestParseQuestions(t *testing.T) {
	t.Run(`bare array in fence`, func(t *testing.T) {
		list, err := ParseQuestions("```json\n[{\"question\":\"Q\",\"type\":\"unknown\"}]\n```")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, models.QuestionTypeTechnical, list[0].Type)
	})

	t.Run(`not json`, func(t *testing.T) {
		_, err := ParseQuestions("nope")
		require.Error(t, err)
	})
}
