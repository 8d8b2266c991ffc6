package service

import (
	"context"
	"log/slog"
	"time"

	"grindtrack/internal/common"
	"grindtrack/internal/domain/model"
	"grindtrack/internal/domain/repository"

	"golang.org/x/sync/singleflight"
)

const (
	msgFreshRecommendation  = "New daily recommendation generated"
	msgCachedRecommendation = "Cached recommendation for today"
)

type RecommendationService struct {
	solvedRepo repository.SolvedRepository
	cache      DailyCache
	now        func() time.Time
	group      singleflight.Group
}

// NewRecommendationService wires the Solve Store and a DailyCache backend.
// now may be nil, in which case time.Now is used; tests inject a fixed clock.
func NewRecommendationService(solvedRepo repository.SolvedRepository, cache DailyCache, now func() time.Time) *RecommendationService {
	if now == nil {
		now = time.Now
	}
	return &RecommendationService{
		solvedRepo: solvedRepo,
		cache:      cache,
		now:        now,
	}
}

type RecommendationResponse struct {
	Message     string                          `json:"message"`
	Recommended []model.RecommendationCandidate `json:"recommended"`
}

// DailyRecommendations serves the requester's ranked list for the current
// UTC day. On a cache hit the memoized list is returned with solved flags
// re-stamped from a fresh Solve Store read; on a miss the list is computed,
// cached unstamped, and then stamped the same way. Concurrent misses for one
// (owner, day) are collapsed into a single computation.
func (s *RecommendationService) DailyRecommendations(ctx context.Context, owner string) (*RecommendationResponse, error) {
	day := DayKey(s.now())

	entry, ok, err := s.cache.Get(ctx, owner, day)
	if err != nil {
		// The cache is an optimization; a failing backend degrades to
		// recomputation instead of failing the request.
		slog.Warn("daily cache read failed", "owner", owner, "day", day, "error", err)
		ok = false
	}

	message := msgCachedRecommendation
	if !ok {
		entry, err = s.computeShared(ctx, owner, day)
		if err != nil {
			return nil, err
		}
		message = msgFreshRecommendation
	}

	stamped, err := s.stampSolved(ctx, owner, entry.Recommended)
	if err != nil {
		return nil, err
	}

	return &RecommendationResponse{Message: message, Recommended: stamped}, nil
}

// computeShared collapses concurrent misses for the same key into one
// scoring pass. Without it the read-then-write sequence would race: both
// computations are equivalent, so the duplicate work would be wasted rather
// than incorrect, but there is no reason to pay for it.
func (s *RecommendationService) computeShared(ctx context.Context, owner, day string) (*model.CacheEntry, error) {
	v, err, _ := s.group.Do(owner+"|"+day, func() (interface{}, error) {
		return s.compute(ctx, owner, day)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.CacheEntry), nil
}

func (s *RecommendationService) compute(ctx context.Context, owner, day string) (*model.CacheEntry, error) {
	mine, err := s.solvedRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, common.Errorf("recommendation: reading requester records: %w: %v", common.ErrServiceUnavailable, err)
	}
	others, err := s.solvedRepo.FindExcludingOwner(ctx, owner)
	if err != nil {
		return nil, common.Errorf("recommendation: reading peer records: %w: %v", common.ErrServiceUnavailable, err)
	}

	entry := &model.CacheEntry{
		Owner:       owner,
		Day:         day,
		Recommended: ScoreCandidates(mine, others, s.now()),
	}

	// The write happens only after a fully successful scoring pass, so a
	// partial result is never memoized. A failed write just means the next
	// request recomputes.
	if err := s.cache.Put(ctx, entry); err != nil {
		slog.Warn("daily cache write failed", "owner", owner, "day", day, "error", err)
	}
	return entry, nil
}

// stampSolved re-reads the requester's solved set and annotates each
// candidate, so problems solved after the list was generated show up as done
// without perturbing order or metadata.
func (s *RecommendationService) stampSolved(ctx context.Context, owner string, candidates []model.RecommendationCandidate) ([]model.RecommendationCandidate, error) {
	mine, err := s.solvedRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, common.Errorf("recommendation: stamping solved flags: %w: %v", common.ErrServiceUnavailable, err)
	}
	solved := make(map[string]struct{}, len(mine))
	for i := range mine {
		solved[mine[i].ProblemName] = struct{}{}
	}

	stamped := make([]model.RecommendationCandidate, len(candidates))
	for i, c := range candidates {
		_, c.Solved = solved[c.ProblemName]
		stamped[i] = c
	}
	return stamped, nil
}
