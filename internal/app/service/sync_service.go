package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"grindtrack/internal/classify"
	"grindtrack/internal/common"
	"grindtrack/internal/domain/model"
	"grindtrack/internal/domain/repository"
	"grindtrack/internal/judge/codeforces"
	"grindtrack/internal/judge/leetcode"

	"github.com/google/uuid"
)

// SyncService pulls accepted submissions from external judges, classifies
// them onto the topic taxonomy and upserts them as solved records.
type SyncService struct {
	solvedRepo repository.SolvedRepository
	userRepo   repository.UserRepository
	leetcode   *leetcode.Client
	codeforces *codeforces.Client
	classifier classify.Classifier
	fetchCount int
}

func NewSyncService(
	solvedRepo repository.SolvedRepository,
	userRepo repository.UserRepository,
	lc *leetcode.Client,
	cf *codeforces.Client,
	classifier classify.Classifier,
	fetchCount int,
) *SyncService {
	return &SyncService{
		solvedRepo: solvedRepo,
		userRepo:   userRepo,
		leetcode:   lc,
		codeforces: cf,
		classifier: classifier,
		fetchCount: fetchCount,
	}
}

type SyncResult struct {
	Message string `json:"message"`
	Fetched int    `json:"fetched"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

// ProgressFunc receives human-readable progress lines during a sync; the SSE
// handler forwards them to the client. May be nil.
type ProgressFunc func(msg string)

// SyncLeetCode imports the user's recent accepted LeetCode submissions.
func (s *SyncService) SyncLeetCode(ctx context.Context, username string) (*SyncResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("sync: fetching user: %w", err)
	}
	if user.LeetCodeHandle == "" {
		return nil, common.Errorf("LeetCode username is required: %w", common.ErrBadRequest)
	}

	subs, err := s.leetcode.RecentAcceptedSubmissions(ctx, user.LeetCodeHandle)
	if err != nil {
		return nil, common.Errorf("sync: fetching LeetCode submissions: %w: %v", common.ErrServiceUnavailable, err)
	}
	if len(subs) == 0 {
		return nil, common.Errorf("no submissions found for this user: %w", common.ErrNotFound)
	}

	result := &SyncResult{Fetched: len(subs)}
	for i := range subs {
		sub := &subs[i]
		solvedAt, err := sub.SolvedAt()
		if err != nil {
			slog.Warn("skipping submission with bad timestamp", "title", sub.Title, "error", err)
			result.Skipped++
			continue
		}
		added, err := s.importSubmission(ctx, username, importRequest{
			problemName: CanonicalProblemName(sub.Title),
			link:        s.leetcode.Link(sub),
			solvedAt:    solvedAt,
		})
		if err != nil {
			slog.Warn("leetcode sync: import failed", "problem", sub.Title, "error", err)
			result.Skipped++
			continue
		}
		if added {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	result.Message = "LeetCode submissions fetched successfully"
	return result, nil
}

// SyncCodeforces imports the user's recent accepted Codeforces submissions,
// reporting per-submission progress through progress when non-nil.
func (s *SyncService) SyncCodeforces(ctx context.Context, username string, progress ProgressFunc) (*SyncResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("sync: fetching user: %w", err)
	}
	if user.CodeforcesHandle == "" {
		return nil, common.Errorf("Codeforces handle is required: %w", common.ErrBadRequest)
	}

	subs, err := s.codeforces.AcceptedSubmissions(ctx, user.CodeforcesHandle, s.fetchCount)
	if err != nil {
		return nil, common.Errorf("sync: fetching Codeforces submissions: %w: %v", common.ErrServiceUnavailable, err)
	}
	if len(subs) == 0 {
		return nil, common.Errorf("no accepted submissions found: %w", common.ErrNotFound)
	}

	result := &SyncResult{Fetched: len(subs)}
	for i := range subs {
		sub := &subs[i]
		name := sub.CanonicalName()
		added, err := s.importSubmission(ctx, username, importRequest{
			problemName:  name,
			link:         s.codeforces.Link(sub),
			solvedAt:     sub.SolvedAt(),
			tags:         sub.Problem.Tags,
			contestIndex: sub.Problem.Index,
		})
		if err != nil {
			if progress != nil {
				progress(fmt.Sprintf("Skipped %s due to error", name))
			}
			slog.Warn("codeforces sync: import failed", "problem", name, "error", err)
			result.Skipped++
			continue
		}
		if added {
			result.Added++
		} else {
			result.Skipped++
		}
		if progress != nil {
			progress(fmt.Sprintf("Synced %d/%d (%s)", i+1, len(subs), name))
		}
	}

	result.Message = "Codeforces submissions fetched successfully"
	return result, nil
}

type importRequest struct {
	problemName  string
	link         string
	solvedAt     time.Time
	tags         []string
	contestIndex string
}

// importSubmission classifies and upserts one synced submission. Returns
// whether a new record was created; an existing record with the same
// solvedAt is skipped without touching the classifier.
func (s *SyncService) importSubmission(ctx context.Context, owner string, req importRequest) (bool, error) {
	existing, err := s.solvedRepo.FindByOwnerAndProblem(ctx, owner, req.problemName)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return false, common.Errorf("sync: checking existing record: %w: %v", common.ErrServiceUnavailable, err)
	}
	if existing != nil && existing.SolvedAt.Equal(req.solvedAt) {
		return false, nil
	}

	var classification *classify.Classification
	if existing != nil {
		// Re-solve of a known problem: keep its classification, refresh the
		// timestamp via upsert on the same identity tuple.
		classification = &classify.Classification{
			Topic:      existing.Topic,
			Subtopic:   existing.Subtopic,
			Difficulty: existing.Difficulty,
		}
	} else {
		classification, err = s.classifier.Classify(ctx, classify.Request{
			ProblemName:  req.problemName,
			Link:         req.link,
			Tags:         req.tags,
			ContestIndex: req.contestIndex,
		})
		if err != nil {
			return false, fmt.Errorf("sync: classifying %s: %w", req.problemName, err)
		}
	}

	rec := &model.SolvedRecord{
		ID:          uuid.NewString(),
		Owner:       owner,
		ProblemName: req.problemName,
		Topic:       classification.Topic,
		Subtopic:    classification.Subtopic,
		Difficulty:  classification.Difficulty,
		Link:        req.link,
		SolvedAt:    req.solvedAt,
	}
	created, err := s.solvedRepo.Upsert(ctx, rec)
	if err != nil {
		return false, common.Errorf("sync: saving record: %w: %v", common.ErrServiceUnavailable, err)
	}
	return created, nil
}
