package memory

import (
	"context"
	"testing"
	"time"

	"gopower/domain/core"
	"gopower/domain/power"
	"gopower/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRepository_SaveGetList(t *testing.T) {
	repo := NewAnalysisRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []core.AnalysisID
	for i := 0; i < 3; i++ {
		rec := &ports.AnalysisRecord{
			Spec:      power.Spec{NumeratorDF: power.Known(float64(i + 1))},
			Error:     "invalid",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Save(ctx, rec))
		require.False(t, core.ID(rec.ID).IsEmpty())
		ids = append(ids, rec.ID)
	}

	got, err := repo.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 2.0, *got.Spec.NumeratorDF)

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)

	_, err = repo.Get(ctx, core.AnalysisID("missing"))
	assert.True(t, core.IsNotFoundError(err))
}

func TestAnalysisRepository_AssignsTimestamp(t *testing.T) {
	repo := NewAnalysisRepository()
	rec := &ports.AnalysisRecord{}
	require.NoError(t, repo.Save(context.Background(), rec))
	assert.False(t, rec.CreatedAt.IsZero())
}
