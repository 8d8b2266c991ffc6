package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"grindtrack/internal/app/service"
	"grindtrack/internal/classify"
	"grindtrack/internal/common"
	"grindtrack/internal/domain/model"
	"grindtrack/internal/judge/codeforces"
	"grindtrack/internal/judge/leetcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClassifier wraps the tag classifier to observe how often the sync
// path actually classifies.
type countingClassifier struct {
	inner classify.Classifier
	calls atomic.Int64
}

func (c *countingClassifier) Classify(ctx context.Context, req classify.Request) (*classify.Classification, error) {
	c.calls.Add(1)
	return c.inner.Classify(ctx, req)
}

func syncFixture(t *testing.T, lcBody, cfBody string) (*service.SyncService, *fakeSolvedRepo, *fakeUserRepo, *countingClassifier) {
	t.Helper()

	lcSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(lcBody))
	}))
	t.Cleanup(lcSrv.Close)
	cfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cfBody))
	}))
	t.Cleanup(cfSrv.Close)

	solvedRepo := &fakeSolvedRepo{}
	userRepo := newFakeUserRepo()
	classifier := &countingClassifier{inner: classify.NewTagClassifier()}
	svc := service.NewSyncService(
		solvedRepo, userRepo,
		leetcode.NewClient(lcSrv.URL), codeforces.NewClient(cfSrv.URL),
		classifier, 100,
	)
	return svc, solvedRepo, userRepo, classifier
}

func addUser(t *testing.T, repo *fakeUserRepo, username, lcHandle, cfHandle string) {
	t.Helper()
	err := repo.Create(context.Background(), &model.User{
		ID: username + "-id", Username: username, Email: username + "@example.com",
		LeetCodeHandle: lcHandle, CodeforcesHandle: cfHandle,
	})
	require.NoError(t, err)
}

const lcTwoSubmissions = `{"data":{"recentAcSubmissionList":[
	{"id":"1","title":"Two Sum","titleSlug":"two-sum","timestamp":"1710072000"},
	{"id":"2","title":"3Sum","titleSlug":"3sum","timestamp":"1709985600"}
]}}`

const cfTwoSubmissions = `{"status":"OK","result":[
	{"id":1,"creationTimeSeconds":1710072000,"verdict":"OK",
	 "problem":{"contestId":4,"index":"A","name":"Watermelon","tags":["brute force","math"]}},
	{"id":2,"creationTimeSeconds":1710072200,"verdict":"OK",
	 "problem":{"contestId":20,"index":"C","name":"Dijkstra?","tags":["shortest paths","graphs"]}}
]}`

func TestSyncLeetCode(t *testing.T) {
	svc, solvedRepo, userRepo, classifier := syncFixture(t, lcTwoSubmissions, `{}`)
	addUser(t, userRepo, "alice", "alice_lc", "")

	result, err := svc.SyncLeetCode(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "LeetCode submissions fetched successfully", result.Message)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Skipped)

	records, err := solvedRepo.FindByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "TWO SUM", records[0].ProblemName)
	assert.Equal(t, "3SUM", records[1].ProblemName)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), records[0].SolvedAt)

	// a second run sees identical timestamps and touches neither the
	// classifier nor the store
	classified := classifier.calls.Load()
	result, err = svc.SyncLeetCode(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, classified, classifier.calls.Load())
}

func TestSyncLeetCodeRequiresHandle(t *testing.T) {
	svc, _, userRepo, _ := syncFixture(t, lcTwoSubmissions, `{}`)
	addUser(t, userRepo, "alice", "", "alice_cf")

	_, err := svc.SyncLeetCode(context.Background(), "alice")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestSyncLeetCodeNoSubmissions(t *testing.T) {
	svc, _, userRepo, _ := syncFixture(t, `{"data":{"recentAcSubmissionList":[]}}`, `{}`)
	addUser(t, userRepo, "alice", "alice_lc", "")

	_, err := svc.SyncLeetCode(context.Background(), "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSyncCodeforces(t *testing.T) {
	svc, solvedRepo, userRepo, _ := syncFixture(t, `{}`, cfTwoSubmissions)
	addUser(t, userRepo, "alice", "", "alice_cf")

	var progress []string
	result, err := svc.SyncCodeforces(context.Background(), "alice", func(msg string) {
		progress = append(progress, msg)
	})
	require.NoError(t, err)
	assert.Equal(t, "Codeforces submissions fetched successfully", result.Message)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, result.Added)

	assert.Equal(t, []string{
		"Synced 1/2 (WATERMELON (4A))",
		"Synced 2/2 (DIJKSTRA? (20C))",
	}, progress)

	records, err := solvedRepo.FindByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// tags drive the classification
	assert.Equal(t, "Arrays", records[0].Topic)
	assert.Equal(t, model.DifficultyEasy, records[0].Difficulty)
	assert.Equal(t, "Graphs", records[1].Topic)
	require.NotNil(t, records[1].Subtopic)
	assert.Equal(t, "Dijkstra", *records[1].Subtopic)
	assert.Equal(t, model.DifficultyMedium, records[1].Difficulty)
}

func TestSyncCodeforcesRequiresHandle(t *testing.T) {
	svc, _, userRepo, _ := syncFixture(t, `{}`, cfTwoSubmissions)
	addUser(t, userRepo, "alice", "alice_lc", "")

	_, err := svc.SyncCodeforces(context.Background(), "alice", nil)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestSyncResolveKeepsClassification(t *testing.T) {
	svc, solvedRepo, userRepo, classifier := syncFixture(t, `{"data":{"recentAcSubmissionList":[
		{"id":"1","title":"Two Sum","titleSlug":"two-sum","timestamp":"1710158400"}
	]}}`, `{}`)
	addUser(t, userRepo, "alice", "alice_lc", "")

	// the problem is already on record with a manual classification from an
	// earlier solve
	sub := "Sliding Window"
	_, err := solvedRepo.Upsert(context.Background(), &model.SolvedRecord{
		ID: "existing", Owner: "alice", ProblemName: "TWO SUM",
		Topic: "Arrays", Subtopic: &sub, Difficulty: model.DifficultyEasy,
		SolvedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result, err := svc.SyncLeetCode(context.Background(), "alice")
	require.NoError(t, err)
	// same identity tuple: the upsert refreshed solved_at instead of adding
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, int64(0), classifier.calls.Load())

	records, err := solvedRepo.FindByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Arrays", records[0].Topic)
	require.NotNil(t, records[0].Subtopic)
	assert.Equal(t, "Sliding Window", *records[0].Subtopic)
	assert.Equal(t, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC), records[0].SolvedAt)
}
