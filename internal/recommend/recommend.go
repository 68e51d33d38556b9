package recommend

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/example/signtutor/internal/catalog"
	"github.com/example/signtutor/internal/progress"
	"github.com/example/signtutor/internal/selection"
	"github.com/example/signtutor/pkg/models"
)

// Thresholds for the individual suggestion rules.
const (
	weakCategoryMinAttempts = 5
	weakCategoryAccuracy    = 0.7
	learnNewDueCeiling      = 10
	learnNewManyUnstudied   = 50
	challengeAccuracy       = 0.8
	challengeMinStudied     = 20
)

// Aggregator produces prioritized study suggestions from accumulated
// records, stats and sessions. It is pure read-side analysis: it never
// mutates stored state, and a failing store degrades to no suggestions
// rather than an error the UI would have to render.
type Aggregator struct {
	store progress.Store
	index *catalog.Index

	// Now is the clock used for due counts and the daily-streak check.
	Now func() time.Time
}

// NewAggregator creates an aggregator over the store and sign catalog.
func NewAggregator(store progress.Store, index *catalog.Index) *Aggregator {
	return &Aggregator{store: store, index: index, Now: time.Now}
}

// GetRecommendations evaluates every suggestion rule and returns the results
// ordered high, medium, low; suggestions inside one tier keep the order the
// rules produced them in.
func (a *Aggregator) GetRecommendations(ctx context.Context) []models.Recommendation {
	now := a.Now()

	records, err := a.store.AllRecords(ctx)
	if err != nil {
		log.Printf("recommend: failed to load records: %v", err)
		return nil
	}
	due, err := a.store.DueRecords(ctx, now, 0)
	if err != nil {
		log.Printf("recommend: failed to load due records: %v", err)
		due = nil
	}
	stats, err := a.store.AllCategoryStats(ctx)
	if err != nil {
		log.Printf("recommend: failed to load category stats: %v", err)
		stats = nil
	}
	sessions, err := a.store.AllSessions(ctx)
	if err != nil {
		log.Printf("recommend: failed to load sessions: %v", err)
		sessions = nil
	}

	var recs []models.Recommendation

	if len(due) > 0 {
		recs = append(recs, models.Recommendation{
			Type:     "review",
			Priority: models.PriorityHigh,
			Reason:   fmt.Sprintf("%d signs are due for review", len(due)),
			Mode:     string(selection.ModeSpaced),
		})
	}

	if weak, ok := weakestCategory(stats); ok {
		recs = append(recs, models.Recommendation{
			Type:     "focus_category",
			Priority: models.PriorityMedium,
			Reason:   fmt.Sprintf("accuracy in category %s is %.0f%%, below 70%%", weak.CategoryID, 100*weak.Accuracy()),
			Mode:     string(selection.ModeWeakest),
		})
	}

	unstudied := a.index.Size() - len(records)
	if unstudied > 0 && len(due) < learnNewDueCeiling {
		priority := models.PriorityLow
		if unstudied > learnNewManyUnstudied {
			priority = models.PriorityMedium
		}
		recs = append(recs, models.Recommendation{
			Type:     "learn_new",
			Priority: priority,
			Reason:   fmt.Sprintf("%d signs have never been studied", unstudied),
			Mode:     string(selection.ModeStandard),
		})
	}

	if !practicedToday(sessions, now) {
		recs = append(recs, models.Recommendation{
			Type:     "maintain_streak",
			Priority: models.PriorityLow,
			Reason:   "no study session recorded today",
			Mode:     string(selection.ModeStandard),
		})
	}

	if len(records) > challengeMinStudied && meanAccuracy(records) > challengeAccuracy {
		recs = append(recs, models.Recommendation{
			Type:     "challenge",
			Priority: models.PriorityLow,
			Reason:   "overall accuracy is above 80%, try a harder session",
			Mode:     string(selection.ModeAdaptive),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank(recs[i].Priority) < priorityRank(recs[j].Priority)
	})
	return recs
}

func priorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	default:
		return 2
	}
}

// weakestCategory returns the lowest-accuracy category with enough attempts
// to judge and accuracy below the focus threshold.
func weakestCategory(stats []models.CategoryStat) (models.CategoryStat, bool) {
	var weakest models.CategoryStat
	found := false
	for _, s := range stats {
		if s.TotalAttempts < weakCategoryMinAttempts || s.Accuracy() >= weakCategoryAccuracy {
			continue
		}
		if !found || s.Accuracy() < weakest.Accuracy() {
			weakest = s
			found = true
		}
	}
	return weakest, found
}

// practicedToday reports whether any session was recorded on now's calendar day.
func practicedToday(sessions []models.QuizSession, now time.Time) bool {
	y, m, d := now.Date()
	for _, s := range sessions {
		sy, sm, sd := s.Date.Date()
		if sy == y && sm == m && sd == d {
			return true
		}
	}
	return false
}

// meanAccuracy averages per-sign accuracy over all studied signs.
func meanAccuracy(records []models.LearningRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Accuracy()
	}
	return sum / float64(len(records))
}
