package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signtutor/internal/progress"
	"github.com/example/signtutor/pkg/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGetOrCreateRecordDefaults(t *testing.T) {
	store := progress.NewMemoryStore()
	model := NewModel(store)

	r, err := model.GetOrCreateRecord(context.Background(), "stop", "prohibition", testNow)
	require.NoError(t, err)

	assert.Equal(t, "stop", r.ItemID)
	assert.Equal(t, "prohibition", r.CategoryID)
	assert.Equal(t, InitialEaseFactor, r.EaseFactor)
	assert.Equal(t, 0, r.Interval)
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, testNow, r.NextReviewDate)
	assert.Equal(t, float64(DefaultResponseTimeMs), r.AverageResponseTimeMs)

	// The default is a contract, not a stored row: nothing persisted yet
	stored, err := store.GetRecord(context.Background(), "stop")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRecordAnswerFirstCorrect(t *testing.T) {
	// Scenario: brand new sign answered correctly in 1 second
	store := progress.NewMemoryStore()
	model := NewModel(store)

	r, err := model.RecordAnswer(context.Background(), "stop", "prohibition", true, 1000, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, r.TotalAttempts)
	assert.Equal(t, 1, r.CorrectAttempts)
	assert.Equal(t, 1, r.Repetitions)
	assert.Equal(t, 1, r.Interval)
	assert.InDelta(t, 2.6, r.EaseFactor, 1e-9)
	require.NotNil(t, r.LastQuality)
	assert.Equal(t, 5, *r.LastQuality)
	assert.Equal(t, testNow.AddDate(0, 0, 1), r.NextReviewDate)
	assert.InDelta(t, 1000, r.AverageResponseTimeMs, 1e-9)
	require.NotNil(t, r.LastAttemptDate)
	assert.Equal(t, testNow, *r.LastAttemptDate)

	stored, err := store.GetRecord(context.Background(), "stop")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, r, *stored)
}

func TestRecordAnswerFirstIncorrect(t *testing.T) {
	// Scenario: brand new sign failed after 5 seconds
	store := progress.NewMemoryStore()
	model := NewModel(store)

	r, err := model.RecordAnswer(context.Background(), "yield", "warning", false, 5000, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, r.TotalAttempts)
	assert.Equal(t, 0, r.CorrectAttempts)
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, 1, r.Interval)
	assert.InDelta(t, 1.6, r.EaseFactor, 1e-9)
	require.NotNil(t, r.LastQuality)
	assert.Equal(t, 0, *r.LastQuality)
}

func TestRecordAnswerRunningAverage(t *testing.T) {
	store := progress.NewMemoryStore()
	model := NewModel(store)
	ctx := context.Background()

	r, err := model.RecordAnswer(ctx, "stop", "prohibition", true, 1000, testNow)
	require.NoError(t, err)
	assert.InDelta(t, 1000, r.AverageResponseTimeMs, 1e-9)

	r, err = model.RecordAnswer(ctx, "stop", "prohibition", true, 3000, testNow)
	require.NoError(t, err)
	assert.InDelta(t, 2000, r.AverageResponseTimeMs, 1e-9)

	r, err = model.RecordAnswer(ctx, "stop", "prohibition", false, 5000, testNow)
	require.NoError(t, err)
	assert.InDelta(t, 3000, r.AverageResponseTimeMs, 1e-9)
}

func TestRecordAnswerQualityUsesPriorAverage(t *testing.T) {
	store := progress.NewMemoryStore()
	model := NewModel(store)
	ctx := context.Background()

	// First answer establishes a 4 second average
	_, err := model.RecordAnswer(ctx, "stop", "prohibition", true, 4000, testNow)
	require.NoError(t, err)

	// 1900ms against the prior 3000ms default would rate 4; against the
	// new 4000ms average it rates 5 (ratio < 0.5)
	r, err := model.RecordAnswer(ctx, "stop", "prohibition", true, 1900, testNow)
	require.NoError(t, err)
	require.NotNil(t, r.LastQuality)
	assert.Equal(t, 5, *r.LastQuality)
}

func TestRecordAnswerEaseFactorNeverBelowFloor(t *testing.T) {
	store := progress.NewMemoryStore()
	model := NewModel(store)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		r, err := model.RecordAnswer(ctx, "stop", "prohibition", i%3 == 0, 4000, testNow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.EaseFactor, MinEaseFactor)
	}
}

func TestRecordAnswerFailureResetsRepetitions(t *testing.T) {
	store := progress.NewMemoryStore()
	model := NewModel(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := model.RecordAnswer(ctx, "stop", "prohibition", true, 1000, testNow)
		require.NoError(t, err)
	}
	r, err := model.RecordAnswer(ctx, "stop", "prohibition", false, 6000, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, 1, r.Interval)
	assert.Equal(t, testNow.AddDate(0, 0, 1), r.NextReviewDate)
}

// failingPutStore rejects record writes.
type failingPutStore struct {
	*progress.MemoryStore
}

func (f *failingPutStore) PutRecord(_ context.Context, _ models.LearningRecord) error {
	return fmt.Errorf("disk full")
}

func TestRecordAnswerSurfacesWriteFailure(t *testing.T) {
	store := &failingPutStore{progress.NewMemoryStore()}
	model := NewModel(store)

	r, err := model.RecordAnswer(context.Background(), "stop", "prohibition", true, 1000, testNow)
	assert.Error(t, err)
	// The computed record still comes back so the session can continue
	assert.Equal(t, 1, r.TotalAttempts)
	assert.Equal(t, 1, r.Repetitions)
}

// flakyReadStore fails GetRecord a fixed number of times, then recovers.
type flakyReadStore struct {
	*progress.MemoryStore
	failures int
}

func (f *flakyReadStore) GetRecord(ctx context.Context, itemID string) (*models.LearningRecord, error) {
	if f.failures > 0 {
		f.failures--
		return nil, fmt.Errorf("connection reset")
	}
	return f.MemoryStore.GetRecord(ctx, itemID)
}

func TestRecordAnswerReadFailureNeverClobbersStoredRecord(t *testing.T) {
	store := &flakyReadStore{MemoryStore: progress.NewMemoryStore()}
	model := NewModel(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := model.RecordAnswer(ctx, "stop", "prohibition", true, 1000, testNow)
		require.NoError(t, err)
	}

	// The answer during the outage is still judged and returned, but the
	// error surfaces and nothing is written over the stored history.
	store.failures = 1
	r, err := model.RecordAnswer(ctx, "stop", "prohibition", true, 1000, testNow)
	assert.Error(t, err)
	assert.Equal(t, 1, r.TotalAttempts)
	assert.Equal(t, 1, r.Repetitions)

	stored, err := store.GetRecord(ctx, "stop")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 3, stored.TotalAttempts)
	assert.Equal(t, 3, stored.Repetitions)

	// Once the store recovers, recording resumes from the stored state.
	r, err = model.RecordAnswer(ctx, "stop", "prohibition", true, 1000, testNow)
	require.NoError(t, err)
	assert.Equal(t, 4, r.TotalAttempts)
	assert.Equal(t, 4, r.Repetitions)
}
