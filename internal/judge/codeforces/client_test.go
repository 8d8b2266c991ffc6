package codeforces_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grindtrack/internal/judge/codeforces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptedSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user.status", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("handle"))
		assert.Equal(t, "1", r.URL.Query().Get("from"))
		assert.Equal(t, "50", r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","result":[
			{"id":1,"creationTimeSeconds":1710072000,"verdict":"OK",
			 "problem":{"contestId":4,"index":"A","name":"Watermelon","tags":["brute force","math"]}},
			{"id":2,"creationTimeSeconds":1710072100,"verdict":"WRONG_ANSWER",
			 "problem":{"contestId":4,"index":"B","name":"Before an Exam","tags":["greedy"]}},
			{"id":3,"creationTimeSeconds":1710072200,"verdict":"OK",
			 "problem":{"contestId":231,"index":"A","name":"Team","tags":["brute force"]}}
		]}`))
	}))
	defer srv.Close()

	client := codeforces.NewClient(srv.URL)
	subs, err := client.AcceptedSubmissions(context.Background(), "alice", 50)
	require.NoError(t, err)

	// non-accepted verdicts are filtered out
	require.Len(t, subs, 2)
	assert.Equal(t, "WATERMELON (4A)", subs[0].CanonicalName())
	assert.Equal(t, "TEAM (231A)", subs[1].CanonicalName())
	assert.Equal(t, srv.URL+"/contest/4/problem/A", client.Link(&subs[0]))
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), subs[0].SolvedAt())
}

func TestAcceptedSubmissionsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","comment":"handle: User with handle nobody not found"}`))
	}))
	defer srv.Close()

	_, err := codeforces.NewClient(srv.URL).AcceptedSubmissions(context.Background(), "nobody", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILED")
}

func TestAcceptedSubmissionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := codeforces.NewClient(srv.URL).AcceptedSubmissions(context.Background(), "alice", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
