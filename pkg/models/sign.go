package models

import "time"

// Sign represents one traffic sign to be memorized
type Sign struct {
	ID          string    `json:"id" db:"id"`
	CategoryID  string    `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ImagePath   string    `json:"image_path" db:"image_path"`
	Difficulty  int       `json:"difficulty" db:"difficulty"` // 1-5 scale, 0 means unset
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultDifficulty is assumed for signs that carry no difficulty value.
const DefaultDifficulty = 2

// EffectiveDifficulty returns the sign's difficulty, defaulting when unset.
func (s Sign) EffectiveDifficulty() int {
	if s.Difficulty == 0 {
		return DefaultDifficulty
	}
	return s.Difficulty
}

// Category groups signs into a study theme (warning, prohibition, ...)
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
