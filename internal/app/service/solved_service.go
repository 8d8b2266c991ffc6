package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"grindtrack/internal/common"
	"grindtrack/internal/domain/model"
	"grindtrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// A topic counts as mastered once the user has solved problems across this
// many distinct subtopics of it.
const masteryThreshold = 2

type SolvedService struct {
	solvedRepo repository.SolvedRepository
	now        func() time.Time
	linkBase   string // base URL for generated problem links
}

func NewSolvedService(solvedRepo repository.SolvedRepository, linkBase string, now func() time.Time) *SolvedService {
	if now == nil {
		now = time.Now
	}
	return &SolvedService{solvedRepo: solvedRepo, now: now, linkBase: linkBase}
}

type AddSolvedRequest struct {
	ProblemName string           `json:"problem_name"`
	Topic       string           `json:"topic"`
	Subtopic    *string          `json:"subtopic,omitempty"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Link        string           `json:"link,omitempty"`
}

type AddSolvedResponse struct {
	Message string              `json:"message"`
	Record  *model.SolvedRecord `json:"record"`
}

// CanonicalProblemName normalizes a problem name to the stored form.
func CanonicalProblemName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Add records a solve, updating solved_at/link in place when the user already
// logged the same problem under the same classification.
func (s *SolvedService) Add(ctx context.Context, owner string, req AddSolvedRequest) (*AddSolvedResponse, error) {
	req.ProblemName = CanonicalProblemName(req.ProblemName)
	if req.ProblemName == "" || req.Topic == "" {
		return nil, common.Errorf("problem name and topic are required: %w", common.ErrBadRequest)
	}
	if !req.Difficulty.Valid() {
		return nil, common.Errorf("difficulty must be Easy, Medium or Hard: %w", common.ErrBadRequest)
	}
	if req.Subtopic != nil && *req.Subtopic == "" {
		req.Subtopic = nil
	}
	if req.Link == "" {
		req.Link = s.linkBase + "/problems/" + slug.Make(req.ProblemName)
	}

	rec := &model.SolvedRecord{
		ID:          uuid.NewString(),
		Owner:       owner,
		ProblemName: req.ProblemName,
		Topic:       req.Topic,
		Subtopic:    req.Subtopic,
		Difficulty:  req.Difficulty,
		Link:        req.Link,
		SolvedAt:    s.now().UTC(),
	}

	created, err := s.solvedRepo.Upsert(ctx, rec)
	if err != nil {
		return nil, common.Errorf("failed to save solved record: %w", err)
	}

	message := "Question updated successfully"
	if created {
		message = "Question added successfully"
	}
	return &AddSolvedResponse{Message: message, Record: rec}, nil
}

// List returns the owner's records, newest solve first.
func (s *SolvedService) List(ctx context.Context, owner string) ([]model.SolvedRecord, error) {
	records, err := s.solvedRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, common.Errorf("failed to fetch solved records: %w: %v", common.ErrServiceUnavailable, err)
	}
	return records, nil
}

// Stats aggregates the owner's records into totals, the current daily streak
// and the list of mastered topics.
func (s *SolvedService) Stats(ctx context.Context, owner string) (*model.SolvedStats, error) {
	records, err := s.solvedRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, common.Errorf("failed to fetch solved records: %w: %v", common.ErrServiceUnavailable, err)
	}

	stats := &model.SolvedStats{
		TotalSolved:    len(records),
		DailyStreak:    dailyStreak(records, s.now()),
		TopicsMastered: topicsMastered(records),
	}
	return stats, nil
}

// dailyStreak counts consecutive UTC dates with at least one solve, walking
// back from today. A day without solves before today means streak 0.
func dailyStreak(records []model.SolvedRecord, now time.Time) int {
	days := make(map[string]struct{}, len(records))
	for i := range records {
		days[DayKey(records[i].SolvedAt)] = struct{}{}
	}

	streak := 0
	day := now.UTC()
	for {
		if _, ok := days[DayKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func topicsMastered(records []model.SolvedRecord) []string {
	coverage := make(map[string]map[string]struct{})
	for i := range records {
		rec := &records[i]
		if rec.Subtopic == nil || *rec.Subtopic == "" {
			continue
		}
		if coverage[rec.Topic] == nil {
			coverage[rec.Topic] = make(map[string]struct{})
		}
		coverage[rec.Topic][*rec.Subtopic] = struct{}{}
	}

	mastered := []string{}
	for topic, subs := range coverage {
		if len(subs) >= masteryThreshold {
			mastered = append(mastered, topic)
		}
	}
	sort.Strings(mastered)
	return mastered
}
