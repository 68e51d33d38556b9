package models

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one suggested next study action.
type Recommendation struct {
	Type     string   `json:"type"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
	Mode     string   `json:"mode"` // suggested follow-up study mode
}

// Mastery describes the tier a sign's retention score falls into.
type Mastery struct {
	Tier  string `json:"tier"`
	Label string `json:"label"`
	Color string `json:"color"`
}
