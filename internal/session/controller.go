package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/example/signtutor/internal/catalog"
	"github.com/example/signtutor/internal/progress"
	"github.com/example/signtutor/internal/retention"
	"github.com/example/signtutor/internal/selection"
	"github.com/example/signtutor/pkg/models"
)

// State of the session state machine.
type State string

const (
	StateIdle     State = "idle"
	StateActive   State = "active"
	StateFinished State = "finished"
)

// Controller drives one study session at a time: it owns the ephemeral
// session state, records every answer through the retention model, and
// persists the aggregate results when the session finishes. Calls are not
// reentrant; the UI layer serializes user actions.
type Controller struct {
	store    progress.Store
	model    *retention.Model
	selector *selection.Selector
	index    *catalog.Index

	// Now is the session clock; replaceable in tests.
	Now func() time.Time

	state        State
	mode         selection.Mode
	difficulty   string
	questionType string
	categories   []string
	items        []models.Sign
	current      int
	answered     bool
	answeredN    int
	correct      int
	streak       int
	bestStreak   int
	missed       []models.MissedItem
	answeredCat  map[string]int
	wrongCat     map[string]int
	startedAt    time.Time
}

// NewController creates an idle session controller.
func NewController(store progress.Store, model *retention.Model, selector *selection.Selector, index *catalog.Index) *Controller {
	return &Controller{
		store:    store,
		model:    model,
		selector: selector,
		index:    index,
		Now:      time.Now,
		state:    StateIdle,
	}
}

// State returns the current state machine state.
func (c *Controller) State() State { return c.state }

// Start begins a fresh session. It returns false, leaving no session behind,
// when no categories are selected or the selection comes up empty. A
// previous finished session is discarded: Start never resumes.
func (c *Controller) Start(ctx context.Context, mode selection.Mode, categories []string, count int, difficulty, questionType string) bool {
	if len(categories) == 0 {
		return false
	}
	pool := c.index.Pool(categories)
	items := c.selector.Select(ctx, mode, pool, count, difficulty)
	if len(items) == 0 {
		return false
	}

	c.state = StateActive
	c.mode = mode
	c.difficulty = difficulty
	c.questionType = questionType
	c.categories = append([]string(nil), categories...)
	c.items = items
	c.current = 0
	c.answered = false
	c.answeredN = 0
	c.correct = 0
	c.streak = 0
	c.bestStreak = 0
	c.missed = nil
	c.answeredCat = make(map[string]int)
	c.wrongCat = make(map[string]int)
	c.startedAt = c.Now()
	return true
}

// Current returns the sign being asked, false when no question is pending.
func (c *Controller) Current() (models.Sign, bool) {
	if c.state != StateActive || c.current >= len(c.items) {
		return models.Sign{}, false
	}
	return c.items[c.current], true
}

// AnswerCurrent records the user's answer for the current question. The
// answer is judged correct when the submitted sign id matches the current
// item. Running counters and the learning record are always updated; a
// persistence failure is returned so the caller can warn or retry, but the
// in-memory session keeps the progress either way.
func (c *Controller) AnswerCurrent(ctx context.Context, answerID string, responseTimeMs float64) (bool, error) {
	sign, ok := c.Current()
	if !ok {
		return false, fmt.Errorf("no active question to answer")
	}
	if c.answered {
		return false, fmt.Errorf("current question already answered")
	}

	correct := answerID == sign.ID
	c.answered = true
	c.answeredN++
	c.answeredCat[sign.CategoryID]++
	if correct {
		c.correct++
		c.streak++
		if c.streak > c.bestStreak {
			c.bestStreak = c.streak
		}
	} else {
		c.streak = 0
		c.wrongCat[sign.CategoryID]++
		c.missed = append(c.missed, models.MissedItem{ItemID: sign.ID, DisplayName: sign.Name})
	}

	_, err := c.model.RecordAnswer(ctx, sign.ID, sign.CategoryID, correct, responseTimeMs, c.Now())
	return correct, err
}

// Advance moves to the next question. Advancing past the last item finishes
// the session and persists its aggregates; the returned bool reports whether
// the session is now finished.
func (c *Controller) Advance(ctx context.Context) (bool, error) {
	if c.state != StateActive {
		return c.state == StateFinished, nil
	}
	c.current++
	c.answered = false
	if c.current < len(c.items) {
		return false, nil
	}
	return true, c.Finalize(ctx)
}

// Finalize ends the session, writes the QuizSession record and accumulates
// category stats. The session transitions to finished even when a write
// fails; the error is surfaced for the caller to handle.
func (c *Controller) Finalize(ctx context.Context) error {
	if c.state != StateActive {
		return nil
	}
	c.state = StateFinished
	now := c.Now()

	percentage := 0
	if c.answeredN > 0 {
		percentage = int(math.Round(100 * float64(c.correct) / float64(c.answeredN)))
	}

	record := models.QuizSession{
		ID:             uuid.NewString(),
		Date:           now,
		Categories:     append([]string(nil), c.categories...),
		Mode:           string(c.mode),
		Difficulty:     c.difficulty,
		QuestionType:   c.questionType,
		TotalQuestions: c.answeredN,
		CorrectAnswers: c.correct,
		MissedItems:    append([]models.MissedItem(nil), c.missed...),
		Percentage:     percentage,
		DurationMs:     now.Sub(c.startedAt).Milliseconds(),
		BestStreak:     c.bestStreak,
	}

	var firstErr error
	if err := c.store.AddSession(ctx, record); err != nil {
		firstErr = fmt.Errorf("failed to save session: %v", err)
	}

	for categoryID, total := range c.answeredCat {
		correct := total - c.wrongCat[categoryID]
		if err := c.accumulateCategoryStat(ctx, categoryID, total, correct, now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// accumulateCategoryStat adds this session's counts onto the category's
// cumulative row. Stats accumulate, they are never overwritten; a crash
// between record and stat writes is tolerated as a counting skew.
func (c *Controller) accumulateCategoryStat(ctx context.Context, categoryID string, total, correct int, now time.Time) error {
	stat, err := c.store.GetCategoryStat(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to load category stat %s: %v", categoryID, err)
	}
	if stat == nil {
		stat = &models.CategoryStat{CategoryID: categoryID}
	}
	stat.TotalAttempts += total
	stat.CorrectAttempts += correct
	stat.LastPracticedDate = now
	if err := c.store.PutCategoryStat(ctx, *stat); err != nil {
		return fmt.Errorf("failed to save category stat %s: %v", categoryID, err)
	}
	return nil
}

// Snapshot is the plain-data view of session progress handed to the UI.
type Snapshot struct {
	State      State  `json:"state"`
	Mode       string `json:"mode"`
	Position   int    `json:"position"` // zero-based index of the current question
	Total      int    `json:"total"`
	Correct    int    `json:"correct"`
	Streak     int    `json:"streak"`
	BestStreak int    `json:"best_streak"`
	Missed     int    `json:"missed"`
}

// GetSnapshot reports the running session progress.
func (c *Controller) GetSnapshot() Snapshot {
	return Snapshot{
		State:      c.state,
		Mode:       string(c.mode),
		Position:   c.current,
		Total:      len(c.items),
		Correct:    c.correct,
		Streak:     c.streak,
		BestStreak: c.bestStreak,
		Missed:     len(c.missed),
	}
}
