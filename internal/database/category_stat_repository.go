package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/signtutor/pkg/models"
)

// GetCategoryStat returns the cumulative stat row for a category, or nil if
// the category has never been practiced.
func (s *Store) GetCategoryStat(ctx context.Context, categoryID string) (*models.CategoryStat, error) {
	var stat models.CategoryStat
	err := s.db.GetContext(ctx, &stat, "SELECT * FROM category_stats WHERE category_id = $1", categoryID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category stat: %v", err)
	}
	return &stat, nil
}

// PutCategoryStat creates or replaces a category stat row.
func (s *Store) PutCategoryStat(ctx context.Context, stat models.CategoryStat) error {
	query := `
		INSERT INTO category_stats (category_id, total_attempts, correct_attempts, last_practiced_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category_id) DO UPDATE SET
			total_attempts = EXCLUDED.total_attempts,
			correct_attempts = EXCLUDED.correct_attempts,
			last_practiced_date = EXCLUDED.last_practiced_date
	`
	_, err := s.db.ExecContext(ctx, query, stat.CategoryID, stat.TotalAttempts, stat.CorrectAttempts, stat.LastPracticedDate)
	if err != nil {
		return fmt.Errorf("failed to save category stat: %v", err)
	}
	return nil
}

// AllCategoryStats returns every category stat row.
func (s *Store) AllCategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	var stats []models.CategoryStat
	err := s.db.SelectContext(ctx, &stats, "SELECT * FROM category_stats ORDER BY category_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list category stats: %v", err)
	}
	return stats, nil
}
