package model

import "time"

// RecommendationCandidate is a problem the requesting user has not solved,
// derived from other users' solve records. It is ephemeral: recomputed once
// per user per UTC calendar day and never persisted beyond the cache entry.
type RecommendationCandidate struct {
	ProblemName string     `json:"problem_name"`
	Topic       string     `json:"topic"`
	Subtopic    *string    `json:"subtopic,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Link        string     `json:"link,omitempty"`
	SolvedAt    time.Time  `json:"solved_at"` // most recent solve among other users
	Score       float64    `json:"score"`
	Solved      bool       `json:"solved"` // stamped at serve time, never cached
}

// CacheEntry memoizes one user's ranked list for one UTC calendar day.
// The entry is written once on the first miss of the day and is read-only
// afterwards; the next day's computation supersedes it.
type CacheEntry struct {
	Owner       string                    `json:"owner"`
	Day         string                    `json:"day"` // UTC date, YYYY-MM-DD
	Recommended []RecommendationCandidate `json:"recommended"`
}
