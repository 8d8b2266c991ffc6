package service

import (
	"sort"
	"time"

	"grindtrack/internal/domain/model"
)

const (
	maxRecommendations = 10

	popularityWeight = 0.6
	freshnessWeight  = 0.4
)

// DayKey returns the UTC calendar date string that scopes cache validity.
// The key is a date, not a rolling 24h window: requests at 23:59 and 00:01
// UTC land on different keys and trigger independent computations.
func DayKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// ScoreCandidates ranks problems solved by other users but not by the
// requester. Pure function: no I/O, deterministic for fixed inputs.
//
// Per candidate, popularity counts every other-user solve record for the
// problem (repeat solves by one user count each), freshness decays with days
// since the most recent solve, and
//
//	score = 0.6*popularity + 0.4*freshness
//
// Candidates are ordered by descending score, ties broken by first
// encounter order in others, truncated to the top 10. Records missing a
// problem name, topic, or valid difficulty are skipped.
func ScoreCandidates(requesterRecords, others []model.SolvedRecord, now time.Time) []model.RecommendationCandidate {
	solved := make(map[string]struct{}, len(requesterRecords))
	for i := range requesterRecords {
		solved[requesterRecords[i].ProblemName] = struct{}{}
	}

	type aggregate struct {
		latest model.SolvedRecord // display metadata from the most recent solve
		count  int
	}
	byName := make(map[string]*aggregate)
	var order []string // first-seen order, the stable tie-break

	for i := range others {
		rec := &others[i]
		if !rec.Scoreable() {
			continue
		}
		if _, ok := solved[rec.ProblemName]; ok {
			continue
		}
		agg, ok := byName[rec.ProblemName]
		if !ok {
			byName[rec.ProblemName] = &aggregate{latest: *rec, count: 1}
			order = append(order, rec.ProblemName)
			continue
		}
		agg.count++
		if rec.SolvedAt.After(agg.latest.SolvedAt) {
			agg.latest = *rec
		}
	}

	candidates := make([]model.RecommendationCandidate, 0, len(order))
	for _, name := range order {
		agg := byName[name]

		daysAgo := now.Sub(agg.latest.SolvedAt).Hours() / 24
		if daysAgo < 0 { // clock skew between writers
			daysAgo = 0
		}
		freshness := 1 / (1 + daysAgo)

		candidates = append(candidates, model.RecommendationCandidate{
			ProblemName: agg.latest.ProblemName,
			Topic:       agg.latest.Topic,
			Subtopic:    agg.latest.Subtopic,
			Difficulty:  agg.latest.Difficulty,
			Link:        agg.latest.Link,
			SolvedAt:    agg.latest.SolvedAt,
			Score:       popularityWeight*float64(agg.count) + freshnessWeight*freshness,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}
	return candidates
}
