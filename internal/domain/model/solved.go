package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the three known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// SolvedRecord is one user's completion of one problem. Problem names are
// stored canonically in trimmed upper case. At most one record exists per
// (owner, problem_name, topic, subtopic, difficulty); re-solving refreshes
// solved_at and link in place.
type SolvedRecord struct {
	ID          string     `json:"id"`
	Owner       string     `json:"owner"` // username of the solver
	ProblemName string     `json:"problem_name"`
	Topic       string     `json:"topic"`
	Subtopic    *string    `json:"subtopic,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Link        string     `json:"link,omitempty"`
	SolvedAt    time.Time  `json:"solved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Scoreable reports whether the record carries the fields the recommendation
// engine needs. Records failing this are filtered out, not treated as errors.
func (r *SolvedRecord) Scoreable() bool {
	return r.ProblemName != "" && r.Topic != "" && r.Difficulty.Valid()
}

// SolvedStats is the aggregate view served by the stats endpoint.
type SolvedStats struct {
	TotalSolved    int      `json:"total_solved"`
	DailyStreak    int      `json:"daily_streak"`
	TopicsMastered []string `json:"topics_mastered"`
}
