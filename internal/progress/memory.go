package progress

import (
	"context"
	"sort"
	"time"

	"github.com/example/signtutor/pkg/models"
)

// MemoryStore is a map-backed Store used by tests and as an in-process
// fallback when no database is configured. It is not safe for concurrent use;
// the engine assumes cooperative single-threaded access.
type MemoryStore struct {
	records  map[string]models.LearningRecord
	stats    map[string]models.CategoryStat
	sessions []models.QuizSession
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.LearningRecord),
		stats:   make(map[string]models.CategoryStat),
	}
}

// GetRecord returns the record for a sign, or nil when absent.
func (m *MemoryStore) GetRecord(_ context.Context, itemID string) (*models.LearningRecord, error) {
	r, ok := m.records[itemID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// PutRecord creates or replaces a record.
func (m *MemoryStore) PutRecord(_ context.Context, record models.LearningRecord) error {
	m.records[record.ItemID] = record
	return nil
}

// AllRecords returns every record in stable item-id order.
func (m *MemoryStore) AllRecords(_ context.Context) ([]models.LearningRecord, error) {
	out := make([]models.LearningRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

// DueRecords returns records due before the given time, earliest first.
func (m *MemoryStore) DueRecords(ctx context.Context, before time.Time, limit int) ([]models.LearningRecord, error) {
	all, _ := m.AllRecords(ctx)
	var due []models.LearningRecord
	for _, r := range all {
		if !r.NextReviewDate.After(before) {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].NextReviewDate.Before(due[j].NextReviewDate) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// WeakestRecords returns records with >= 2 attempts, lowest accuracy first.
func (m *MemoryStore) WeakestRecords(ctx context.Context, limit int) ([]models.LearningRecord, error) {
	all, _ := m.AllRecords(ctx)
	var weak []models.LearningRecord
	for _, r := range all {
		if r.TotalAttempts >= 2 {
			weak = append(weak, r)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Accuracy() < weak[j].Accuracy() })
	if limit > 0 && len(weak) > limit {
		weak = weak[:limit]
	}
	return weak, nil
}

// GetCategoryStat returns the stat row for a category, or nil when absent.
func (m *MemoryStore) GetCategoryStat(_ context.Context, categoryID string) (*models.CategoryStat, error) {
	s, ok := m.stats[categoryID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// PutCategoryStat creates or replaces a category stat row.
func (m *MemoryStore) PutCategoryStat(_ context.Context, stat models.CategoryStat) error {
	m.stats[stat.CategoryID] = stat
	return nil
}

// AllCategoryStats returns every stat row in stable category order.
func (m *MemoryStore) AllCategoryStats(_ context.Context) ([]models.CategoryStat, error) {
	out := make([]models.CategoryStat, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

// AddSession appends a completed session.
func (m *MemoryStore) AddSession(_ context.Context, session models.QuizSession) error {
	m.sessions = append(m.sessions, session)
	return nil
}

// AllSessions returns completed sessions, newest first.
func (m *MemoryStore) AllSessions(_ context.Context) ([]models.QuizSession, error) {
	out := make([]models.QuizSession, len(m.sessions))
	copy(out, m.sessions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// LatestSession returns the most recent session, or nil when none exists.
func (m *MemoryStore) LatestSession(ctx context.Context) (*models.QuizSession, error) {
	all, _ := m.AllSessions(ctx)
	if len(all) == 0 {
		return nil, nil
	}
	s := all[0]
	return &s, nil
}
