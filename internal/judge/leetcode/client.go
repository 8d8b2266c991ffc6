// Package leetcode fetches recently accepted submissions through LeetCode's
// public GraphQL endpoint.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const recentAcceptedQuery = `query recentAcSubmissions($username: String!) {
  recentAcSubmissionList(username: $username) {
    id
    title
    titleSlug
    timestamp
  }
}`

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Submission is one accepted submission as reported by LeetCode. Timestamp
// arrives as a string of Unix seconds.
type Submission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Timestamp string `json:"timestamp"`
}

// SolvedAt parses the submission timestamp.
func (s *Submission) SolvedAt() (time.Time, error) {
	secs, err := strconv.ParseInt(s.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("leetcode: parsing timestamp %q: %w", s.Timestamp, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// Link returns the canonical problem URL on the client's host.
func (c *Client) Link(s *Submission) string {
	return c.baseURL + "/problems/" + s.TitleSlug
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type recentAcceptedResponse struct {
	Data struct {
		RecentAcSubmissionList []Submission `json:"recentAcSubmissionList"`
	} `json:"data"`
}

// RecentAcceptedSubmissions fetches the user's latest accepted submissions.
func (c *Client) RecentAcceptedSubmissions(ctx context.Context, username string) ([]Submission, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     recentAcceptedQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return nil, fmt.Errorf("leetcode: marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("leetcode: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.baseURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leetcode: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("leetcode: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leetcode: request returned %s: %s", resp.Status, respBody)
	}

	var parsed recentAcceptedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("leetcode: unmarshaling response: %w", err)
	}
	return parsed.Data.RecentAcSubmissionList, nil
}
