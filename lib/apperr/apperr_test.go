package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAppErr(t *testing.T) {
	t.Run(`KindOf through wrap chain`, func(t *testing.T) {
		err := errors.Wrap(NotFound("интервью не найдено"), "ошибка получения интервью")
		require.Equal(t, KindNotFound, KindOf(err))
		require.True(t, Is(err, KindNotFound))
		require.False(t, Is(err, KindConflict))
	})

	t.Run(`plain error is internal`, func(t *testing.T) {
		require.Equal(t, KindInternal, KindOf(errors.New("db down")))
		require.False(t, Is(nil, KindInternal))
	})

	t.Run(`user message hides cause`, func(t *testing.T) {
		cause := errors.New("password=secret connection refused")
		err := Extraction(cause, "не удалось прочитать резюме")
		require.Equal(t, "не удалось прочитать резюме", UserMessage(err, "ошибка"))
		require.Contains(t, err.Error(), "connection refused")
		require.Equal(t, cause, errors.Cause(err))
		require.Equal(t, "ошибка", UserMessage(cause, "ошибка"))
	})
}
