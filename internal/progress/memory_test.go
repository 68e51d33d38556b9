package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signtutor/pkg/models"
)

var memNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestGetRecordAbsent(t *testing.T) {
	store := NewMemoryStore()
	r, err := store.GetRecord(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestPutAndGetRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	record := models.LearningRecord{ItemID: "stop", CategoryID: "prohibition", TotalAttempts: 1}

	require.NoError(t, store.PutRecord(ctx, record))
	got, err := store.GetRecord(ctx, "stop")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record, *got)
}

func TestDueRecordsOrderAndLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.PutRecord(ctx, models.LearningRecord{
			ItemID:         id,
			NextReviewDate: memNow.AddDate(0, 0, i-2), // a,b overdue; c due now; d in the future
		}))
	}

	due, err := store.DueRecords(ctx, memNow, 0)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, "a", due[0].ItemID, "most overdue first")
	assert.Equal(t, "b", due[1].ItemID)
	assert.Equal(t, "c", due[2].ItemID)

	limited, err := store.DueRecords(ctx, memNow, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestWeakestRecordsFilterAndOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	put := func(id string, total, correct int) {
		require.NoError(t, store.PutRecord(ctx, models.LearningRecord{
			ItemID: id, TotalAttempts: total, CorrectAttempts: correct,
		}))
	}
	put("good", 4, 4)
	put("bad", 4, 1)
	put("mid", 4, 2)
	put("once", 1, 0) // below the 2-attempt threshold

	weak, err := store.WeakestRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, weak, 3)
	assert.Equal(t, "bad", weak[0].ItemID)
	assert.Equal(t, "mid", weak[1].ItemID)
	assert.Equal(t, "good", weak[2].ItemID)
}

func TestSessionsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	latest, err := store.LatestSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, store.AddSession(ctx, models.QuizSession{ID: "old", Date: memNow.Add(-time.Hour)}))
	require.NoError(t, store.AddSession(ctx, models.QuizSession{ID: "new", Date: memNow}))

	latest, err = store.LatestSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "new", latest.ID)

	all, err := store.AllSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
}

func TestCategoryStats(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	absent, err := store.GetCategoryStat(ctx, "warning")
	require.NoError(t, err)
	assert.Nil(t, absent)

	stat := models.CategoryStat{CategoryID: "warning", TotalAttempts: 5, CorrectAttempts: 3, LastPracticedDate: memNow}
	require.NoError(t, store.PutCategoryStat(ctx, stat))

	got, err := store.GetCategoryStat(ctx, "warning")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stat, *got)
}
