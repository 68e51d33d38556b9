package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/signtutor/pkg/models"
)

// GetRecord returns the learning record for a sign, or nil if the sign has
// never been attempted.
func (s *Store) GetRecord(ctx context.Context, itemID string) (*models.LearningRecord, error) {
	var record models.LearningRecord
	err := s.db.GetContext(ctx, &record, "SELECT * FROM learning_records WHERE item_id = $1", itemID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning record: %v", err)
	}
	return &record, nil
}

// PutRecord creates or replaces a learning record.
func (s *Store) PutRecord(ctx context.Context, record models.LearningRecord) error {
	query := `
		INSERT INTO learning_records (
			item_id, category_id, total_attempts, correct_attempts,
			ease_factor, interval_days, repetitions, next_review_date,
			last_attempt_date, average_response_time_ms, last_quality,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (item_id) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			total_attempts = EXCLUDED.total_attempts,
			correct_attempts = EXCLUDED.correct_attempts,
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			next_review_date = EXCLUDED.next_review_date,
			last_attempt_date = EXCLUDED.last_attempt_date,
			average_response_time_ms = EXCLUDED.average_response_time_ms,
			last_quality = EXCLUDED.last_quality,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ItemID,
		record.CategoryID,
		record.TotalAttempts,
		record.CorrectAttempts,
		record.EaseFactor,
		record.Interval,
		record.Repetitions,
		record.NextReviewDate,
		record.LastAttemptDate,
		record.AverageResponseTimeMs,
		record.LastQuality,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save learning record: %v", err)
	}
	return nil
}

// AllRecords returns every learning record.
func (s *Store) AllRecords(ctx context.Context) ([]models.LearningRecord, error) {
	var records []models.LearningRecord
	err := s.db.SelectContext(ctx, &records, "SELECT * FROM learning_records ORDER BY item_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list learning records: %v", err)
	}
	return records, nil
}

// DueRecords returns records due before the given time, ordered by due date
// ascending. A non-positive limit means no limit.
func (s *Store) DueRecords(ctx context.Context, before time.Time, limit int) ([]models.LearningRecord, error) {
	query := `
		SELECT * FROM learning_records
		WHERE next_review_date <= $1
		ORDER BY next_review_date ASC
	`
	args := []interface{}{before}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	var records []models.LearningRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list due records: %v", err)
	}
	return records, nil
}

// WeakestRecords returns records with at least 2 attempts ordered by
// ascending accuracy. A non-positive limit means no limit.
func (s *Store) WeakestRecords(ctx context.Context, limit int) ([]models.LearningRecord, error) {
	query := `
		SELECT * FROM learning_records
		WHERE total_attempts >= 2
		ORDER BY CAST(correct_attempts AS REAL) / total_attempts ASC, item_id ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	var records []models.LearningRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list weakest records: %v", err)
	}
	return records, nil
}
