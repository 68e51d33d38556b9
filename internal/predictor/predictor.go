package predictor

import (
	"math"
	"time"

	"github.com/example/signtutor/internal/retention"
	"github.com/example/signtutor/pkg/models"
)

// FeatureCount is the width of the feature vector the scorer consumes.
const FeatureCount = 8

// NeutralProbability is returned whenever no usable prediction exists.
const NeutralProbability = 0.5

// Predictor estimates the probability that the user will fail a sign on the
// next attempt. Implementations are opaque to the engine; training and
// persistence live outside this module.
type Predictor interface {
	Predict(features [FeatureCount]float64) float64
}

// Neutral is the default predictor. It knows nothing and says so.
type Neutral struct{}

// Predict always returns the neutral probability.
func (Neutral) Predict(_ [FeatureCount]float64) float64 {
	return NeutralProbability
}

// Safe wraps an optional predictor so its absence or failure can never reach
// the engine: a nil inner predictor, a panic, or an out-of-range output all
// resolve to the neutral probability.
type Safe struct {
	inner Predictor
}

// NewSafe wraps a predictor; inner may be nil.
func NewSafe(inner Predictor) *Safe {
	return &Safe{inner: inner}
}

// Predict returns the inner predictor's probability, or 0.5 when that is not
// possible or not sensible.
func (s *Safe) Predict(features [FeatureCount]float64) (p float64) {
	defer func() {
		if r := recover(); r != nil {
			p = NeutralProbability
		}
	}()
	if s == nil || s.inner == nil {
		return NeutralProbability
	}
	p = s.inner.Predict(features)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return NeutralProbability
	}
	return p
}

// Features builds the scorer input vector from one learning record. A nil
// record describes a never-attempted sign. Every component is normalized
// into [0,1].
func Features(r *models.LearningRecord, now time.Time) [FeatureCount]float64 {
	if r == nil {
		return [FeatureCount]float64{
			0, // accuracy
			0, // attempts
			1, // ease norm (fresh records start at the initial ease factor)
			0, // repetitions
			0, // interval
			1, // due (never scheduled counts as due)
			retention.DefaultResponseTimeMs / 10000.0, // response time
			0, // last quality
		}
	}
	dueNow := 0.0
	if retention.IsDue(r, now) {
		dueNow = 1
	}
	lastQuality := 0.0
	if r.LastQuality != nil {
		lastQuality = float64(*r.LastQuality) / 5.0
	}
	return [FeatureCount]float64{
		r.Accuracy(),
		math.Min(1, float64(r.TotalAttempts)/20.0),
		math.Min(1, (r.EaseFactor-retention.MinEaseFactor)/(retention.InitialEaseFactor-retention.MinEaseFactor)),
		math.Min(1, float64(r.Repetitions)/5.0),
		math.Min(1, float64(r.Interval)/30.0),
		dueNow,
		math.Min(1, r.AverageResponseTimeMs/10000.0),
		lastQuality,
	}
}
