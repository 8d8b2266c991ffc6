// Package codeforces fetches user submissions from the Codeforces REST API.
package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const verdictAccepted = "OK"

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

type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
}

type Submission struct {
	ID                  int64   `json:"id"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Verdict             string  `json:"verdict"`
	Problem             Problem `json:"problem"`
}

func (s *Submission) SolvedAt() time.Time {
	return time.Unix(s.CreationTimeSeconds, 0).UTC()
}

// CanonicalName renders the stored problem name, e.g. "WATERMELON (4A)".
// Embedding contest id and index disambiguates problems that share a title.
func (s *Submission) CanonicalName() string {
	return strings.ToUpper(fmt.Sprintf("%s (%d%s)", strings.TrimSpace(s.Problem.Name), s.Problem.ContestID, s.Problem.Index))
}

// Link returns the contest problem URL on the client's host.
func (c *Client) Link(s *Submission) string {
	return fmt.Sprintf("%s/contest/%d/problem/%s", c.baseURL, s.Problem.ContestID, s.Problem.Index)
}

type userStatusResponse struct {
	Status  string       `json:"status"`
	Comment string       `json:"comment"`
	Result  []Submission `json:"result"`
}

// AcceptedSubmissions fetches up to count recent submissions for the handle
// and keeps only the accepted ones.
func (c *Client) AcceptedSubmissions(ctx context.Context, handle string, count int) ([]Submission, error) {
	endpoint := fmt.Sprintf("%s/api/user.status?handle=%s&from=1&count=%d",
		c.baseURL, url.QueryEscape(handle), count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("codeforces: creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codeforces: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("codeforces: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("codeforces: request returned %s: %s", resp.Status, respBody)
	}

	var parsed userStatusResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("codeforces: unmarshaling response: %w", err)
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("codeforces: API status %q: %s", parsed.Status, parsed.Comment)
	}

	accepted := make([]Submission, 0, len(parsed.Result))
	for _, sub := range parsed.Result {
		if sub.Verdict == verdictAccepted {
			accepted = append(accepted, sub)
		}
	}
	return accepted, nil
}
