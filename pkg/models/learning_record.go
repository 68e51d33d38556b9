package models

import "time"

// LearningRecord tracks a user's progress with a specific sign using the SM-2 algorithm.
// One record exists per sign, created lazily on the first attempt and never deleted.
type LearningRecord struct {
	ItemID                string     `json:"item_id" db:"item_id"`
	CategoryID            string     `json:"category_id" db:"category_id"`
	TotalAttempts         int        `json:"total_attempts" db:"total_attempts"`
	CorrectAttempts       int        `json:"correct_attempts" db:"correct_attempts"`
	EaseFactor            float64    `json:"ease_factor" db:"ease_factor"` // SM-2 EF parameter, never below 1.3
	Interval              int        `json:"interval" db:"interval_days"` // Current interval in days
	Repetitions           int        `json:"repetitions" db:"repetitions"` // Consecutive correct recalls
	NextReviewDate        time.Time  `json:"next_review_date" db:"next_review_date"`
	LastAttemptDate       *time.Time `json:"last_attempt_date" db:"last_attempt_date"`
	AverageResponseTimeMs float64    `json:"average_response_time_ms" db:"average_response_time_ms"`
	LastQuality           *int       `json:"last_quality" db:"last_quality"` // 0-5 rating of last recall
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// Accuracy returns the fraction of correct attempts, 0 when never attempted.
func (r LearningRecord) Accuracy() float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.CorrectAttempts) / float64(r.TotalAttempts)
}
