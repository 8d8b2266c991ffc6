// Package classify assigns topic, subtopic and difficulty to synced problems.
package classify

import (
	"context"

	"grindtrack/internal/domain/model"
)

// Taxonomy is the fixed set of topics and subtopics classifications must use.
var Taxonomy = map[string][]string{
	"Arrays":  {"Prefix Sum", "Sliding Window", "Two Pointers"},
	"Strings": {"KMP", "Z-Algorithm", "Trie"},
	"Graphs":  {"DFS", "BFS", "Dijkstra", "Topological Sort"},
	"Trees":   {"Binary Tree", "BST", "Segment Tree", "Fenwick Tree"},
	"DP":      {"0/1 Knapsack", "LIS", "Matrix DP"},
	"Greedy":  {"Activity Selection", "Huffman Coding"},
}

// KnownTopic reports whether topic belongs to the taxonomy.
func KnownTopic(topic string) bool {
	_, ok := Taxonomy[topic]
	return ok
}

// Request describes one synced submission awaiting classification.
type Request struct {
	ProblemName string
	Link        string
	Tags        []string // judge-provided tags, may be empty
	// Codeforces problem index ("A".."F2"), empty for other judges. Later
	// indices correlate with harder problems.
	ContestIndex string
}

type Classification struct {
	Topic      string           `json:"topic"`
	Subtopic   *string          `json:"subtopic,omitempty"`
	Difficulty model.Difficulty `json:"difficulty"`
}

// Classifier maps a synced submission onto the taxonomy. Implementations:
// GeminiClassifier (remote model) and TagClassifier (local rules).
type Classifier interface {
	Classify(ctx context.Context, req Request) (*Classification, error)
}
