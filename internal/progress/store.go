package progress

import (
	"context"
	"time"

	"github.com/example/signtutor/pkg/models"
)

// Store is the persistence contract the study engine consumes. Implementations
// keep learning records, category stats and completed sessions; the engine
// never touches a database directly.
type Store interface {
	// GetRecord returns the learning record for a sign, or nil if the sign
	// has never been attempted.
	GetRecord(ctx context.Context, itemID string) (*models.LearningRecord, error)
	// PutRecord creates or replaces a learning record.
	PutRecord(ctx context.Context, record models.LearningRecord) error
	// AllRecords returns every learning record.
	AllRecords(ctx context.Context) ([]models.LearningRecord, error)
	// DueRecords returns records with next_review_date <= before, ordered by
	// due date ascending, at most limit rows (limit <= 0 means no limit).
	DueRecords(ctx context.Context, before time.Time, limit int) ([]models.LearningRecord, error)
	// WeakestRecords returns records with at least 2 attempts ordered by
	// ascending accuracy, at most limit rows.
	WeakestRecords(ctx context.Context, limit int) ([]models.LearningRecord, error)

	// GetCategoryStat returns the stat row for a category, or nil if the
	// category has never been practiced.
	GetCategoryStat(ctx context.Context, categoryID string) (*models.CategoryStat, error)
	// PutCategoryStat creates or replaces a category stat row.
	PutCategoryStat(ctx context.Context, stat models.CategoryStat) error
	// AllCategoryStats returns every category stat row.
	AllCategoryStats(ctx context.Context) ([]models.CategoryStat, error)

	// AddSession appends a completed session record.
	AddSession(ctx context.Context, session models.QuizSession) error
	// AllSessions returns every completed session, newest first.
	AllSessions(ctx context.Context) ([]models.QuizSession, error)
	// LatestSession returns the most recently completed session, or nil if
	// no session has been recorded.
	LatestSession(ctx context.Context) (*models.QuizSession, error)
}
