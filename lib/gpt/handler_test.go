package gpthandler

import (
	"context"
	"sync"
	"testing"
	"time"

	dbmodels "interview-platform-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	answer string
	err    error
	delay  time.Duration
}

func (f fakeClient) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.answer, f.err
}

type memLogStore struct {
	mu   sync.Mutex
	list []dbmodels.AiLog
}

func (s *memLogStore) Save(rec dbmodels.AiLog) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, rec)
	return "id", nil
}

func TestGenerateByPromtAndText(t *testing.T) {
	t.Run(`answer is logged with context data`, func(t *testing.T) {
		store := &memLogStore{}
		provider := NewProvider(fakeClient{answer: `{"ok":true}`}, dbmodels.AiYaGptType, store, time.Second)
		ctx := WithLogData(context.TODO(), "interview-1", dbmodels.AiScoreType)
		answer, err := provider.GenerateByPromtAndText(ctx, "sys", "user")
		require.NoError(t, err)
		require.Equal(t, `{"ok":true}`, answer)
		require.Len(t, store.list, 1)
		require.Equal(t, "interview-1", store.list[0].InterviewID)
		require.Equal(t, dbmodels.AiScoreType, store.list[0].ReqestType)
		require.Equal(t, "", store.list[0].Error)
	})

	t.Run(`timeout is an error`, func(t *testing.T) {
		store := &memLogStore{}
		provider := NewProvider(fakeClient{answer: "late", delay: time.Second}, dbmodels.AiGeminiType, store, 20*time.Millisecond)
		_, err := provider.GenerateByPromtAndText(context.TODO(), "sys", "user")
		require.Error(t, err)
		require.True(t, errors.Is(err, context.DeadlineExceeded))
		require.Len(t, store.list, 1)
		require.NotEmpty(t, store.list[0].Error)
	})

	t.Run(`client error is returned`, func(t *testing.T) {
		provider := NewProvider(fakeClient{err: errors.New("401")}, dbmodels.AiYaGptType, nil, 0)
		_, err := provider.GenerateByPromtAndText(context.TODO(), "sys", "user")
		require.Error(t, err)
	})
}
