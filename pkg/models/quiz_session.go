package models

import "time"

// MissedItem identifies one sign answered incorrectly during a session.
type MissedItem struct {
	ItemID      string `json:"item_id"`
	DisplayName string `json:"display_name"`
}

// QuizSession is the immutable record of one completed study session.
// Created once at session end and never mutated afterwards.
type QuizSession struct {
	ID             string       `json:"id" db:"id"`
	Date           time.Time    `json:"date" db:"date"`
	Categories     []string     `json:"categories" db:"categories"`
	Mode           string       `json:"mode" db:"mode"`
	Difficulty     string       `json:"difficulty" db:"difficulty"`
	QuestionType   string       `json:"question_type" db:"question_type"`
	TotalQuestions int          `json:"total_questions" db:"total_questions"`
	CorrectAnswers int          `json:"correct_answers" db:"correct_answers"`
	MissedItems    []MissedItem `json:"missed_items" db:"missed_items"`
	Percentage     int          `json:"percentage" db:"percentage"`
	DurationMs     int64        `json:"duration_ms" db:"duration_ms"`
	BestStreak     int          `json:"best_streak" db:"best_streak"`
}
