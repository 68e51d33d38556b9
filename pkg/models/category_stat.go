package models

import "time"

// CategoryStat accumulates attempt counts for one sign category.
// Updated at session finalize time, one row per category, grows indefinitely.
type CategoryStat struct {
	CategoryID        string    `json:"category_id" db:"category_id"`
	TotalAttempts     int       `json:"total_attempts" db:"total_attempts"`
	CorrectAttempts   int       `json:"correct_attempts" db:"correct_attempts"`
	LastPracticedDate time.Time `json:"last_practiced_date" db:"last_practiced_date"`
}

// Accuracy returns the cumulative fraction of correct attempts for the category.
func (s CategoryStat) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.CorrectAttempts) / float64(s.TotalAttempts)
}
