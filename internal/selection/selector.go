package selection

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/example/signtutor/internal/predictor"
	"github.com/example/signtutor/internal/progress"
	"github.com/example/signtutor/internal/retention"
	"github.com/example/signtutor/pkg/models"
)

// Mode selects the question-selection strategy for a session.
type Mode string

const (
	// ModeStandard presents a uniform random shuffle of the pool
	ModeStandard Mode = "standard"
	// ModeMissed replays signs answered wrong in the previous session
	ModeMissed Mode = "missed"
	// ModeWeakest presents the signs with the lowest accuracy first
	ModeWeakest Mode = "weakest"
	// ModeSpaced presents signs due for spaced-repetition review
	ModeSpaced Mode = "spaced"
	// ModeAdaptive ranks every candidate by a composite study priority
	ModeAdaptive Mode = "adaptive"
)

// Difficulty band names accepted by the pre-filter.
const (
	DifficultyEasy     = "easy"
	DifficultyMedium   = "medium"
	DifficultyHard     = "hard"
	DifficultyAdaptive = "adaptive" // skip filtering, let the priority decide
)

// Adaptive priority constants: due signs are scored by how much retention
// they have lost, unseen signs sit between due and well-known ones.
const (
	duePriorityBase    = 100.0
	unseenPriority     = 50.0
	knownPriorityBase  = 20.0
	knownPriorityScale = 0.2
	predictorWeight    = 10.0
)

// Selector produces the ordered item list for one study session.
type Selector struct {
	store   progress.Store
	predict *predictor.Safe
	rng     *rand.Rand

	// Now is the clock used for due checks; replaceable in tests.
	Now func() time.Time
}

// NewSelector creates a selector. rng may be nil, in which case a
// time-seeded source is used; tests pass a fixed seed for reproducibility.
func NewSelector(store progress.Store, pred predictor.Predictor, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{
		store:   store,
		predict: predictor.NewSafe(pred),
		rng:     rng,
		Now:     time.Now,
	}
}

// Select returns the ordered session list for the given mode: at most target
// signs, never duplicated, drawn from the candidate pool. Fallback fills
// append to the primary selection, they never replace it. Store read
// failures degrade to random selection rather than failing the session.
func (s *Selector) Select(ctx context.Context, mode Mode, pool []models.Sign, target int, difficulty string) []models.Sign {
	pool = filterDifficulty(pool, difficulty)
	if len(pool) == 0 || target <= 0 {
		return nil
	}
	if target > len(pool) {
		target = len(pool)
	}

	picked := newPickList(target)
	switch mode {
	case ModeMissed:
		s.pickMissed(ctx, pool, picked)
		s.fillRandom(pool, picked)
	case ModeWeakest:
		s.pickWeakest(ctx, pool, picked)
		s.fillRandom(pool, picked)
	case ModeSpaced:
		s.pickDue(ctx, pool, picked)
		s.pickUnseen(ctx, pool, picked)
		s.fillRandom(pool, picked)
	case ModeAdaptive:
		s.pickAdaptive(ctx, pool, picked)
	default: // ModeStandard
		s.fillRandom(pool, picked)
	}
	return picked.items
}

// filterDifficulty keeps only signs inside the requested difficulty band.
// Bands are inclusive value sets; "adaptive" (or no band) skips filtering.
func filterDifficulty(pool []models.Sign, difficulty string) []models.Sign {
	var allowed map[int]bool
	switch difficulty {
	case DifficultyEasy:
		allowed = map[int]bool{1: true, 2: true}
	case DifficultyMedium:
		allowed = map[int]bool{2: true, 3: true, 4: true}
	case DifficultyHard:
		allowed = map[int]bool{3: true, 4: true, 5: true}
	default:
		return pool
	}
	var filtered []models.Sign
	for _, sign := range pool {
		if allowed[sign.EffectiveDifficulty()] {
			filtered = append(filtered, sign)
		}
	}
	return filtered
}

// pickList accumulates a selection without duplicates.
type pickList struct {
	items  []models.Sign
	used   map[string]bool
	target int
}

func newPickList(target int) *pickList {
	return &pickList{used: make(map[string]bool), target: target}
}

func (p *pickList) full() bool { return len(p.items) >= p.target }

func (p *pickList) add(sign models.Sign) {
	if p.full() || p.used[sign.ID] {
		return
	}
	p.used[sign.ID] = true
	p.items = append(p.items, sign)
}

// pickMissed selects pool signs present in the previous session's
// wrong-answer list, in that list's order.
func (s *Selector) pickMissed(ctx context.Context, pool []models.Sign, picked *pickList) {
	last, err := s.store.LatestSession(ctx)
	if err != nil {
		log.Printf("selection: failed to load latest session: %v", err)
		return
	}
	if last == nil {
		return
	}
	byID := make(map[string]models.Sign, len(pool))
	for _, sign := range pool {
		byID[sign.ID] = sign
	}
	for _, missed := range last.MissedItems {
		if sign, ok := byID[missed.ItemID]; ok {
			picked.add(sign)
		}
	}
}

// pickWeakest selects pool signs with at least 2 attempts by ascending
// accuracy. Ties keep the original pool order.
func (s *Selector) pickWeakest(ctx context.Context, pool []models.Sign, picked *pickList) {
	weakest, err := s.store.WeakestRecords(ctx, 0)
	if err != nil {
		log.Printf("selection: failed to load weakest records: %v", err)
		return
	}
	accuracy := make(map[string]float64, len(weakest))
	for _, r := range weakest {
		accuracy[r.ItemID] = r.Accuracy()
	}
	var candidates []models.Sign
	for _, sign := range pool {
		if _, ok := accuracy[sign.ID]; ok {
			candidates = append(candidates, sign)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return accuracy[candidates[i].ID] < accuracy[candidates[j].ID]
	})
	for _, sign := range candidates {
		picked.add(sign)
	}
}

// pickDue selects pool signs currently due for review, most overdue first.
func (s *Selector) pickDue(ctx context.Context, pool []models.Sign, picked *pickList) {
	due, err := s.store.DueRecords(ctx, s.Now(), 2*picked.target)
	if err != nil {
		log.Printf("selection: failed to load due records: %v", err)
		return
	}
	byID := make(map[string]models.Sign, len(pool))
	for _, sign := range pool {
		byID[sign.ID] = sign
	}
	for _, r := range due {
		if sign, ok := byID[r.ItemID]; ok {
			picked.add(sign)
		}
	}
}

// pickUnseen selects pool signs that have never been attempted, in pool order.
func (s *Selector) pickUnseen(ctx context.Context, pool []models.Sign, picked *pickList) {
	if picked.full() {
		return
	}
	records, err := s.store.AllRecords(ctx)
	if err != nil {
		log.Printf("selection: failed to load records: %v", err)
		return
	}
	attempted := make(map[string]bool, len(records))
	for _, r := range records {
		attempted[r.ItemID] = true
	}
	for _, sign := range pool {
		if !attempted[sign.ID] {
			picked.add(sign)
		}
	}
}

// fillRandom appends uniformly random not-yet-selected pool signs until the
// selection reaches its target.
func (s *Selector) fillRandom(pool []models.Sign, picked *pickList) {
	if picked.full() {
		return
	}
	var remaining []models.Sign
	for _, sign := range pool {
		if !picked.used[sign.ID] {
			remaining = append(remaining, sign)
		}
	}
	s.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	for _, sign := range remaining {
		picked.add(sign)
	}
}

// pickAdaptive scores every candidate and takes the highest priorities. Due
// signs score by lost retention, unseen signs score a fixed base, known and
// scheduled signs trail. The failure predictor contributes an advisory nudge
// that vanishes under the neutral predictor. Equal priorities keep pool
// order, which makes the ranking reproducible.
func (s *Selector) pickAdaptive(ctx context.Context, pool []models.Sign, picked *pickList) {
	records, err := s.store.AllRecords(ctx)
	if err != nil {
		log.Printf("selection: failed to load records: %v", err)
		s.fillRandom(pool, picked)
		return
	}
	byItem := make(map[string]models.LearningRecord, len(records))
	for _, r := range records {
		byItem[r.ItemID] = r
	}

	now := s.Now()
	type scored struct {
		sign     models.Sign
		priority float64
	}
	candidates := make([]scored, 0, len(pool))
	for _, sign := range pool {
		var priority float64
		record, attempted := byItem[sign.ID]
		switch {
		case !attempted:
			priority = unseenPriority
		case retention.IsDue(&record, now):
			priority = duePriorityBase - float64(retention.Score(record))
		default:
			priority = knownPriorityBase - float64(retention.Score(record))*knownPriorityScale
		}
		var recPtr *models.LearningRecord
		if attempted {
			recPtr = &record
		}
		priority += predictorWeight * (s.predict.Predict(predictor.Features(recPtr, now)) - predictor.NeutralProbability)
		candidates = append(candidates, scored{sign: sign, priority: priority})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})
	for _, c := range candidates {
		picked.add(c.sign)
	}
}
