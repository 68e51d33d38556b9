package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signtutor/internal/progress"
	"github.com/example/signtutor/pkg/models"
)

type captureNotifier struct {
	counts []int
}

func (c *captureNotifier) NotifyDueReviews(count int) error {
	c.counts = append(c.counts, count)
	return nil
}

func TestRunManualCheckNotifiesDueCount(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := context.Background()
	overdue := time.Now().AddDate(0, 0, -1)
	for _, id := range []string{"stop", "yield"} {
		require.NoError(t, store.PutRecord(ctx, models.LearningRecord{
			ItemID:         id,
			NextReviewDate: overdue,
		}))
	}
	require.NoError(t, store.PutRecord(ctx, models.LearningRecord{
		ItemID:         "curve",
		NextReviewDate: time.Now().AddDate(0, 0, 5),
	}))

	notifier := &captureNotifier{}
	s := New(store, notifier)
	require.NoError(t, s.RunManualCheck())
	assert.Equal(t, []int{2}, notifier.counts)
}

func TestRunManualCheckSilentWhenNothingDue(t *testing.T) {
	store := progress.NewMemoryStore()
	notifier := &captureNotifier{}
	s := New(store, notifier)

	require.NoError(t, s.RunManualCheck())
	assert.Empty(t, notifier.counts)
}
