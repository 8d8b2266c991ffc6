package classify

import (
	"context"
	"strings"

	"grindtrack/internal/domain/model"
)

// tagTopics maps lowercased judge tags and name keywords onto taxonomy
// topics. First match wins, checked in the order tags arrive.
var tagTopics = map[string]string{
	"two pointers":        "Arrays",
	"binary search":       "Arrays",
	"sortings":            "Arrays",
	"array":               "Arrays",
	"strings":             "Strings",
	"string":              "Strings",
	"hashing":             "Strings",
	"graphs":              "Graphs",
	"graph":               "Graphs",
	"dfs and similar":     "Graphs",
	"shortest paths":      "Graphs",
	"trees":               "Trees",
	"tree":                "Trees",
	"dp":                  "DP",
	"dynamic programming": "DP",
	"greedy":              "Greedy",
}

// tagSubtopics refines a topic when a tag names a specific technique.
var tagSubtopics = map[string]string{
	"two pointers":    "Two Pointers",
	"shortest paths":  "Dijkstra",
	"dfs and similar": "DFS",
}

// TagClassifier classifies from judge tags and the problem name alone. It is
// the fallback when no Gemini API key is configured and when the remote
// classifier fails.
type TagClassifier struct{}

func NewTagClassifier() *TagClassifier {
	return &TagClassifier{}
}

func (c *TagClassifier) Classify(_ context.Context, req Request) (*Classification, error) {
	result := &Classification{
		Topic:      "Arrays", // default bucket for unrecognized problems
		Difficulty: difficultyFromIndex(req.ContestIndex),
	}

	for _, tag := range req.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		topic, ok := tagTopics[key]
		if !ok {
			continue
		}
		result.Topic = topic
		if sub, ok := tagSubtopics[key]; ok {
			s := sub
			result.Subtopic = &s
		}
		break
	}

	return result, nil
}

// difficultyFromIndex estimates difficulty from the Codeforces problem index:
// A/B open a contest, C is the usual middle, D and beyond are hard. Problems
// without an index default to Medium.
func difficultyFromIndex(index string) model.Difficulty {
	if index == "" {
		return model.DifficultyMedium
	}
	switch index[0] {
	case 'A', 'B':
		return model.DifficultyEasy
	case 'C':
		return model.DifficultyMedium
	default:
		return model.DifficultyHard
	}
}
