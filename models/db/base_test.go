package dbmodels

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBaseModel(t *testing.T) {
	t.Run("id assigned on create", func(t *testing.T) {
		rec := Job{}
		require.NoError(t, rec.BeforeCreate(nil))
		_, err := uuid.Parse(rec.ID)
		require.NoError(t, err)
	})
	t.Run("preset id kept", func(t *testing.T) {
		rec := Job{}
		rec.ID = "job-1"
		require.NoError(t, rec.BeforeCreate(nil))
		require.Equal(t, "job-1", rec.ID)
	})
}
