package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/signtutor/pkg/models"
)

// quizSessionRow is the flat table shape; list fields are JSON text columns.
type quizSessionRow struct {
	ID             string    `db:"id"`
	Date           time.Time `db:"date"`
	Categories     string    `db:"categories"`
	Mode           string    `db:"mode"`
	Difficulty     string    `db:"difficulty"`
	QuestionType   string    `db:"question_type"`
	TotalQuestions int       `db:"total_questions"`
	CorrectAnswers int       `db:"correct_answers"`
	MissedItems    string    `db:"missed_items"`
	Percentage     int       `db:"percentage"`
	DurationMs     int64     `db:"duration_ms"`
	BestStreak     int       `db:"best_streak"`
}

func (r quizSessionRow) toModel() (models.QuizSession, error) {
	session := models.QuizSession{
		ID:             r.ID,
		Date:           r.Date,
		Mode:           r.Mode,
		Difficulty:     r.Difficulty,
		QuestionType:   r.QuestionType,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Percentage:     r.Percentage,
		DurationMs:     r.DurationMs,
		BestStreak:     r.BestStreak,
	}
	if err := json.Unmarshal([]byte(r.Categories), &session.Categories); err != nil {
		return session, fmt.Errorf("failed to decode session categories: %v", err)
	}
	if err := json.Unmarshal([]byte(r.MissedItems), &session.MissedItems); err != nil {
		return session, fmt.Errorf("failed to decode session missed items: %v", err)
	}
	return session, nil
}

// AddSession appends a completed session. Sessions are append-only; there is
// no update path.
func (s *Store) AddSession(ctx context.Context, session models.QuizSession) error {
	categories, err := json.Marshal(session.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode session categories: %v", err)
	}
	missed := session.MissedItems
	if missed == nil {
		missed = []models.MissedItem{}
	}
	missedJSON, err := json.Marshal(missed)
	if err != nil {
		return fmt.Errorf("failed to encode session missed items: %v", err)
	}

	query := `
		INSERT INTO quiz_sessions (
			id, date, categories, mode, difficulty, question_type,
			total_questions, correct_answers, missed_items,
			percentage, duration_ms, best_streak
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.Date,
		string(categories),
		session.Mode,
		session.Difficulty,
		session.QuestionType,
		session.TotalQuestions,
		session.CorrectAnswers,
		string(missedJSON),
		session.Percentage,
		session.DurationMs,
		session.BestStreak,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}

// AllSessions returns every completed session, newest first.
func (s *Store) AllSessions(ctx context.Context) ([]models.QuizSession, error) {
	var rows []quizSessionRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM quiz_sessions ORDER BY date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %v", err)
	}
	sessions := make([]models.QuizSession, 0, len(rows))
	for _, row := range rows {
		session, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// LatestSession returns the most recent session, or nil when none exists.
func (s *Store) LatestSession(ctx context.Context) (*models.QuizSession, error) {
	var row quizSessionRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM quiz_sessions ORDER BY date DESC LIMIT 1")
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session: %v", err)
	}
	session, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &session, nil
}
