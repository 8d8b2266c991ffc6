package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"grindtrack/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagClassifier(t *testing.T) {
	c := NewTagClassifier()

	cases := []struct {
		name         string
		req          Request
		wantTopic    string
		wantSubtopic string
		wantDiff     model.Difficulty
	}{
		{
			name:         "tag with subtopic",
			req:          Request{Tags: []string{"two pointers"}, ContestIndex: "A"},
			wantTopic:    "Arrays",
			wantSubtopic: "Two Pointers",
			wantDiff:     model.DifficultyEasy,
		},
		{
			name:      "graph tag",
			req:       Request{Tags: []string{"implementation", "graphs"}, ContestIndex: "D"},
			wantTopic: "Graphs",
			wantDiff:  model.DifficultyHard,
		},
		{
			name:         "dfs tag",
			req:          Request{Tags: []string{"dfs and similar"}, ContestIndex: "C"},
			wantTopic:    "Graphs",
			wantSubtopic: "DFS",
			wantDiff:     model.DifficultyMedium,
		},
		{
			name:      "no recognized tags",
			req:       Request{Tags: []string{"implementation"}},
			wantTopic: "Arrays",
			wantDiff:  model.DifficultyMedium,
		},
		{
			name:      "no tags at all",
			req:       Request{ProblemName: "MYSTERY"},
			wantTopic: "Arrays",
			wantDiff:  model.DifficultyMedium,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTopic, got.Topic)
			assert.Equal(t, tc.wantDiff, got.Difficulty)
			if tc.wantSubtopic == "" {
				assert.Nil(t, got.Subtopic)
			} else {
				require.NotNil(t, got.Subtopic)
				assert.Equal(t, tc.wantSubtopic, *got.Subtopic)
			}
		})
	}
}

func TestDifficultyFromIndex(t *testing.T) {
	assert.Equal(t, model.DifficultyEasy, difficultyFromIndex("A"))
	assert.Equal(t, model.DifficultyEasy, difficultyFromIndex("B"))
	assert.Equal(t, model.DifficultyMedium, difficultyFromIndex("C"))
	assert.Equal(t, model.DifficultyHard, difficultyFromIndex("D"))
	assert.Equal(t, model.DifficultyHard, difficultyFromIndex("F2"))
	assert.Equal(t, model.DifficultyMedium, difficultyFromIndex(""))
}

func TestParseClassification(t *testing.T) {
	got, err := parseClassification("```json\n{\"topic\":\"Graphs\",\"subtopic\":\"BFS\",\"difficulty\":\"Medium\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Graphs", got.Topic)
	require.NotNil(t, got.Subtopic)
	assert.Equal(t, "BFS", *got.Subtopic)
	assert.Equal(t, model.DifficultyMedium, got.Difficulty)

	// bare JSON without a fence works too
	got, err = parseClassification(`{"topic":"DP","difficulty":"Hard"}`)
	require.NoError(t, err)
	assert.Equal(t, "DP", got.Topic)
	assert.Nil(t, got.Subtopic)

	_, err = parseClassification(`{"topic":"Astrology","difficulty":"Hard"}`)
	assert.Error(t, err)

	_, err = parseClassification(`{"topic":"DP","difficulty":"Impossible"}`)
	assert.Error(t, err)

	_, err = parseClassification("not json at all")
	assert.Error(t, err)
}

func TestGeminiClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[
			{"text":"` + "```json\\n{\\\"topic\\\":\\\"Trees\\\",\\\"subtopic\\\":\\\"Segment Tree\\\",\\\"difficulty\\\":\\\"Hard\\\"}\\n```" + `"}
		]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClassifier(srv.URL, "test-model", "test-key")
	got, err := c.Classify(context.Background(), Request{ProblemName: "RANGE QUERIES", Tags: []string{"data structures"}})
	require.NoError(t, err)
	assert.Equal(t, "Trees", got.Topic)
	require.NotNil(t, got.Subtopic)
	assert.Equal(t, "Segment Tree", *got.Subtopic)
	assert.Equal(t, model.DifficultyHard, got.Difficulty)
}

func TestGeminiClassifyEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClassifier(srv.URL, "test-model", "test-key")
	_, err := c.Classify(context.Background(), Request{ProblemName: "X"})
	assert.Error(t, err)
}
