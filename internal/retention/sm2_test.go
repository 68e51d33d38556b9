package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/signtutor/pkg/models"
)

func TestQualityFromOutcome(t *testing.T) {
	tests := []struct {
		name    string
		correct bool
		ms      float64
		avg     float64
		want    int
	}{
		{"slow failure is a blackout", false, 5000, 3000, 0},
		{"fast failure suggests partial recall", false, 1200, 3000, 1},
		{"failure exactly at the threshold is a blackout", false, 3000, 3000, 0},
		{"fast correct answer is perfect", true, 1000, 3000, 5},
		{"correct under the average shows hesitation", true, 2500, 3000, 4},
		{"correct above the average is effortful", true, 4000, 3000, 3},
		{"no history defaults the average to 3 seconds", true, 1000, 0, 5},
		{"ratio exactly 0.5 rates 4", true, 1500, 3000, 4},
		{"ratio exactly 1.0 rates 3", true, 3000, 3000, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityFromOutcome(tt.correct, tt.ms, tt.avg))
		})
	}
}

func TestApplySM2FirstCorrectAnswer(t *testing.T) {
	// Scenario: fresh record, perfect recall
	result := ApplySM2(5, 2.5, 0, 0)
	assert.InDelta(t, 2.6, result.EaseFactor, 1e-9)
	assert.Equal(t, 1, result.Interval)
	assert.Equal(t, 1, result.Repetitions)
}

func TestApplySM2CompleteFailure(t *testing.T) {
	// Scenario: fresh record, blackout
	result := ApplySM2(0, 2.5, 0, 0)
	assert.InDelta(t, 1.6, result.EaseFactor, 1e-9)
	assert.Equal(t, 1, result.Interval)
	assert.Equal(t, 0, result.Repetitions)
}

func TestApplySM2BootstrapIntervals(t *testing.T) {
	first := ApplySM2(4, 2.5, 0, 0)
	assert.Equal(t, 1, first.Interval)
	assert.Equal(t, 1, first.Repetitions)

	second := ApplySM2(4, first.EaseFactor, first.Interval, first.Repetitions)
	assert.Equal(t, 6, second.Interval)
	assert.Equal(t, 2, second.Repetitions)

	// From the third repetition the interval compounds by the new ease factor
	third := ApplySM2(4, second.EaseFactor, second.Interval, second.Repetitions)
	assert.Equal(t, 3, third.Repetitions)
	assert.Equal(t, 15, third.Interval) // round(6 * 2.5)
}

func TestApplySM2FailureResetsProgress(t *testing.T) {
	result := ApplySM2(2, 2.0, 30, 4)
	assert.Equal(t, 0, result.Repetitions)
	assert.Equal(t, 1, result.Interval)
}

func TestApplySM2EaseFactorFloor(t *testing.T) {
	ef := 1.35
	for i := 0; i < 10; i++ {
		result := ApplySM2(0, ef, 1, 0)
		assert.GreaterOrEqual(t, result.EaseFactor, MinEaseFactor)
		ef = result.EaseFactor
	}
	assert.Equal(t, MinEaseFactor, ef)
}

func TestApplySM2IntervalGrowsWithRepetitions(t *testing.T) {
	ef, interval, reps := 2.5, 0, 0
	prev := 0
	for i := 0; i < 8; i++ {
		result := ApplySM2(4, ef, interval, reps)
		assert.GreaterOrEqual(t, result.Interval, prev)
		prev = result.Interval
		ef, interval, reps = result.EaseFactor, result.Interval, result.Repetitions
	}
}

func record(total, correct int, ef float64, reps int) models.LearningRecord {
	return models.LearningRecord{
		ItemID:          "stop",
		CategoryID:      "prohibition",
		TotalAttempts:   total,
		CorrectAttempts: correct,
		EaseFactor:      ef,
		Repetitions:     reps,
	}
}

func TestScoreNeverAttempted(t *testing.T) {
	// Scenario: untouched record scores zero and sits in the "new" tier
	r := record(0, 0, 2.5, 0)
	assert.Equal(t, 0, Score(r))
	assert.Equal(t, "new", Mastery(r).Tier)
}

func TestScoreWeights(t *testing.T) {
	// accuracy 0.5, ease norm 1.0, repetition norm 1.0
	assert.Equal(t, 75, Score(record(4, 2, 2.5, 5)))
	// accuracy 1.0, ease norm 0, repetition norm 0
	assert.Equal(t, 50, Score(record(4, 4, 1.3, 0)))
	// accuracy 1.0, ease norm 1.0, repetition norm 0.4 (2/5)
	assert.Equal(t, 88, Score(record(10, 10, 2.5, 2)))
}

func TestScoreClampedTo100(t *testing.T) {
	// ease factor above 2.5 pushes the ease term past its nominal weight
	assert.Equal(t, 100, Score(record(10, 10, 3.2, 5)))
}

func TestScoreMonotonicInAccuracy(t *testing.T) {
	prev := -1
	for correct := 0; correct <= 10; correct++ {
		score := Score(record(10, correct, 2.0, 3))
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestMasteryTiers(t *testing.T) {
	tests := []struct {
		name string
		r    models.LearningRecord
		tier string
	}{
		{"master", record(10, 10, 2.5, 5), "master"},
		{"proficient", record(4, 2, 2.5, 5), "proficient"},
		{"learning", record(4, 4, 1.3, 0), "learning"},
		{"beginner", record(2, 1, 1.3, 0), "beginner"},
		{"new", record(0, 0, 2.5, 0), "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tier, Mastery(tt.r).Tier)
		})
	}
}

func TestMasteryIsPure(t *testing.T) {
	r := record(6, 4, 2.1, 3)
	assert.Equal(t, Mastery(r), Mastery(r))
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(nil, now), "absent record is always due")

	due := record(1, 1, 2.5, 1)
	due.NextReviewDate = now.Add(-time.Hour)
	assert.True(t, IsDue(&due, now))

	exact := record(1, 1, 2.5, 1)
	exact.NextReviewDate = now
	assert.True(t, IsDue(&exact, now))

	future := record(1, 1, 2.5, 1)
	future.NextReviewDate = now.Add(time.Hour)
	assert.False(t, IsDue(&future, now))
}
