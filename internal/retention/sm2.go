package retention

import (
	"math"

	"github.com/example/signtutor/pkg/models"
)

// SM-2 parameters shared by the whole engine.
const (
	// MinEaseFactor is the floor the ease factor never drops below
	MinEaseFactor = 1.3
	// InitialEaseFactor is assigned to a sign on its first attempt
	InitialEaseFactor = 2.5
	// PassThreshold - answers rated 3 and above count as successful recalls
	PassThreshold = 3
	// DefaultResponseTimeMs seeds the running average before any history exists
	DefaultResponseTimeMs = 3000
	// fastFailureMs - an incorrect answer under this time suggests partial recall
	fastFailureMs = 3000
)

// Quality ratings in the SM-2 scale
const (
	// Complete blackout, unable to recall
	QualityBlackout = 0
	// Incorrect response but answered quickly (partial recall)
	QualityIncorrectFast = 1
	// Correct response but required significant effort
	QualityCorrectDifficult = 3
	// Correct response after some hesitation
	QualityCorrectHesitation = 4
	// Perfect response with no hesitation
	QualityPerfect = 5
)

// QualityFromOutcome maps an answer outcome to an SM-2 quality rating.
// Incorrect answers rate 1 when given under 3 seconds (the user was close),
// 0 otherwise. Correct answers rate 3-5 by response time relative to the
// sign's running average (defaulting to 3 seconds with no history).
func QualityFromOutcome(correct bool, responseTimeMs, averageResponseTimeMs float64) int {
	if !correct {
		if responseTimeMs < fastFailureMs {
			return QualityIncorrectFast
		}
		return QualityBlackout
	}

	avg := averageResponseTimeMs
	if avg <= 0 {
		avg = DefaultResponseTimeMs
	}
	ratio := responseTimeMs / avg
	switch {
	case ratio < 0.5:
		return QualityPerfect
	case ratio < 1.0:
		return QualityCorrectHesitation
	default:
		return QualityCorrectDifficult
	}
}

// SM2Result holds the scheduling state produced by one SM-2 update.
type SM2Result struct {
	EaseFactor  float64
	Interval    int // days until the next review
	Repetitions int // consecutive correct recalls
}

// ApplySM2 runs one step of the SM-2 algorithm. The ease factor is adjusted
// by the standard quality polynomial and floored at 1.3. A failed recall
// (quality < 3) resets repetitions and schedules the sign again tomorrow;
// successful recalls walk the fixed 1-day/6-day bootstrap intervals and then
// grow geometrically by the updated ease factor.
func ApplySM2(quality int, easeFactor float64, interval, repetitions int) SM2Result {
	q := float64(quality)
	newEF := easeFactor + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))
	if newEF < MinEaseFactor {
		newEF = MinEaseFactor
	}

	if quality < PassThreshold {
		return SM2Result{EaseFactor: newEF, Interval: 1, Repetitions: 0}
	}

	newReps := repetitions + 1
	var newInterval int
	switch newReps {
	case 1:
		newInterval = 1
	case 2:
		newInterval = 6
	default:
		newInterval = int(math.Round(float64(interval) * newEF))
	}

	return SM2Result{EaseFactor: newEF, Interval: newInterval, Repetitions: newReps}
}

// Retention score weights. The composite is a design decision layered on top
// of SM-2: recall accuracy dominates, ease factor and repetition depth refine.
const (
	accuracyWeight    = 0.5
	easeWeight        = 0.3
	repetitionsWeight = 0.2
)

// Score derives a 0-100 retention score for one sign from its accumulated
// statistics. A never-attempted sign scores 0.
func Score(r models.LearningRecord) int {
	if r.TotalAttempts == 0 {
		return 0
	}
	easeNorm := (r.EaseFactor - MinEaseFactor) / (InitialEaseFactor - MinEaseFactor)
	repNorm := math.Min(1, float64(r.Repetitions)/5.0)
	score := int(math.Round(100 * (accuracyWeight*r.Accuracy() + easeWeight*easeNorm + repetitionsWeight*repNorm)))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Mastery buckets a sign's retention score into a display tier.
func Mastery(r models.LearningRecord) models.Mastery {
	score := Score(r)
	switch {
	case score >= 90:
		return models.Mastery{Tier: "master", Label: "Mastered", Color: "#4caf50"}
	case score >= 70:
		return models.Mastery{Tier: "proficient", Label: "Proficient", Color: "#8bc34a"}
	case score >= 50:
		return models.Mastery{Tier: "learning", Label: "Learning", Color: "#ffc107"}
	case score >= 25:
		return models.Mastery{Tier: "beginner", Label: "Beginner", Color: "#ff9800"}
	default:
		return models.Mastery{Tier: "new", Label: "New", Color: "#9e9e9e"}
	}
}
