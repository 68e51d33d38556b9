package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/example/signtutor/internal/progress"
	"github.com/example/signtutor/pkg/models"
)

// Model owns every mutation of LearningRecord state. All answer recording
// goes through RecordAnswer; nothing else in the engine writes records.
type Model struct {
	store progress.Store
}

// NewModel creates a retention model over the given progress store.
func NewModel(store progress.Store) *Model {
	return &Model{store: store}
}

// NewRecord returns the default learning record for a sign that has never
// been attempted. The defaults are part of the engine's contract: ease
// factor 2.5, unscheduled interval, due immediately, 3 second average.
func NewRecord(itemID, categoryID string, now time.Time) models.LearningRecord {
	return models.LearningRecord{
		ItemID:                itemID,
		CategoryID:            categoryID,
		EaseFactor:            InitialEaseFactor,
		Interval:              0,
		Repetitions:           0,
		NextReviewDate:        now,
		AverageResponseTimeMs: DefaultResponseTimeMs,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// GetOrCreateRecord returns the stored record for a sign, or the documented
// default record if the sign has never been attempted. The default is not
// persisted until the first answer is recorded.
func (m *Model) GetOrCreateRecord(ctx context.Context, itemID, categoryID string, now time.Time) (models.LearningRecord, error) {
	existing, err := m.store.GetRecord(ctx, itemID)
	if err != nil {
		return models.LearningRecord{}, fmt.Errorf("failed to load record for %s: %v", itemID, err)
	}
	if existing == nil {
		return NewRecord(itemID, categoryID, now), nil
	}
	return *existing, nil
}

// RecordAnswer applies one answer outcome to a sign's learning record and
// persists the result. The quality rating uses the average response time
// accumulated before this answer. On a persistence failure the updated
// record is still returned alongside the error so the session can continue
// on unpersisted state. A read failure also returns the in-memory update
// and the error, but skips the write: the stored record may hold history
// this answer could not see, and must not be overwritten with defaults.
func (m *Model) RecordAnswer(ctx context.Context, itemID, categoryID string, correct bool, responseTimeMs float64, now time.Time) (models.LearningRecord, error) {
	record, readErr := m.GetOrCreateRecord(ctx, itemID, categoryID, now)
	if readErr != nil {
		record = NewRecord(itemID, categoryID, now)
	}

	quality := QualityFromOutcome(correct, responseTimeMs, record.AverageResponseTimeMs)
	result := ApplySM2(quality, record.EaseFactor, record.Interval, record.Repetitions)

	record.TotalAttempts++
	if correct {
		record.CorrectAttempts++
	}
	n := float64(record.TotalAttempts)
	record.AverageResponseTimeMs = (record.AverageResponseTimeMs*(n-1) + responseTimeMs) / n

	record.EaseFactor = result.EaseFactor
	record.Interval = result.Interval
	record.Repetitions = result.Repetitions
	record.NextReviewDate = now.AddDate(0, 0, result.Interval)
	attemptTime := now
	record.LastAttemptDate = &attemptTime
	q := quality
	record.LastQuality = &q
	record.UpdatedAt = now

	if readErr != nil {
		return record, readErr
	}
	if err := m.store.PutRecord(ctx, record); err != nil {
		return record, fmt.Errorf("failed to persist record for %s: %v", itemID, err)
	}
	return record, nil
}

// IsDue reports whether a sign should be reviewed now. An absent record is
// always due: a never-attempted sign has nothing scheduled yet.
func IsDue(r *models.LearningRecord, now time.Time) bool {
	if r == nil {
		return true
	}
	return !r.NextReviewDate.After(now)
}
