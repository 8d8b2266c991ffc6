package leetcode_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grindtrack/internal/judge/leetcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentAcceptedSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "recentAcSubmissionList")
		assert.Equal(t, "alice", req.Variables["username"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"recentAcSubmissionList":[
			{"id":"101","title":"Two Sum","titleSlug":"two-sum","timestamp":"1710072000"},
			{"id":"102","title":"3Sum","titleSlug":"3sum","timestamp":"1709985600"}
		]}}`))
	}))
	defer srv.Close()

	client := leetcode.NewClient(srv.URL)
	subs, err := client.RecentAcceptedSubmissions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "Two Sum", subs[0].Title)
	assert.Equal(t, srv.URL+"/problems/two-sum", client.Link(&subs[0]))

	solvedAt, err := subs[0].SolvedAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), solvedAt)
}

func TestRecentAcceptedSubmissionsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"recentAcSubmissionList":[]}}`))
	}))
	defer srv.Close()

	subs, err := leetcode.NewClient(srv.URL).RecentAcceptedSubmissions(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestRecentAcceptedSubmissionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := leetcode.NewClient(srv.URL).RecentAcceptedSubmissions(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSolvedAtBadTimestamp(t *testing.T) {
	sub := leetcode.Submission{Timestamp: "not-a-number"}
	_, err := sub.SolvedAt()
	assert.Error(t, err)
}
