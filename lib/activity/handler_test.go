package activityhandler

import (
	"interview-platform-backend/models"
	dbmodels "interview-platform-backend/models/db"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	list []dbmodels.Activity
	fail bool
}

func (m *memStore) Create(rec dbmodels.Activity) (string, error) {
	if m.fail {
		return "", errors.New("db down")
	}
	m.list = append(m.list, rec)
	return "id", nil
}

func (m *memStore) List(userID string, limit int) ([]dbmodels.Activity, error) {
	result := []dbmodels.Activity{}
	for _, rec := range m.list {
		if userID == "" || rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func TestActivity(t *testing.T) {
	store := &memStore{}
	provider := NewProvider(store)
	provider.Log("u1", models.ActivityUserLogin, "вход")
	provider.Log("u2", models.ActivityUserLogin, "вход")

	t.Run("кандидат видит только свои записи", func(t *testing.T) {
		list, err := provider.List("u1", models.CandidateRole)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "u1", list[0].UserID)
	})
	t.Run("администратор видит все", func(t *testing.T) {
		list, err := provider.List("admin", models.AdminRole)
		require.NoError(t, err)
		require.Len(t, list, 2)
	})
	t.Run("ошибка хранилища не прерывает запись", func(t *testing.T) {
		store.fail = true
		require.NotPanics(t, func() {
			provider.Log("u1", models.ActivityUserLogin, "вход")
		})
	})
}
