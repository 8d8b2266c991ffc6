package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiClassifier asks the Generative Language REST API to place a problem
// in the taxonomy. The model replies with a JSON object, usually inside a
// markdown code fence.
type GeminiClassifier struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiClassifier(baseURL, modelName, apiKey string) *GeminiClassifier {
	return &GeminiClassifier{
		baseURL:    baseURL,
		model:      modelName,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClassifier) prompt(req Request) string {
	var b strings.Builder
	b.WriteString("Classify this competitive programming problem. Respond strictly with a JSON object ")
	b.WriteString(`{"topic": string, "subtopic": string, "difficulty": "Easy"|"Medium"|"Hard"} and nothing else.` + "\n")
	b.WriteString("Use only these topics and subtopics:\n")
	for topic, subs := range Taxonomy {
		fmt.Fprintf(&b, "%s: %s\n", topic, strings.Join(subs, ", "))
	}
	fmt.Fprintf(&b, "Problem name: %s\nLink: %s\n", req.ProblemName, req.Link)
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Judge tags: %s\n", strings.Join(req.Tags, ", "))
	}
	if req.ContestIndex != "" {
		fmt.Fprintf(&b, "Contest problem index: %s (later indices are harder)\n", req.ContestIndex)
	}
	return b.String()
}

func (c *GeminiClassifier) Classify(ctx context.Context, req Request) (*Classification, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: c.prompt(req)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: request returned %s: %s", resp.Status, respBody)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gemini: unmarshaling response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}

	return parseClassification(parsed.Candidates[0].Content.Parts[0].Text)
}

// parseClassification extracts the JSON object from the model's reply,
// stripping markdown code fences when present.
func parseClassification(text string) (*Classification, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result Classification
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("gemini: parsing classification %q: %w", cleaned, err)
	}
	if !KnownTopic(result.Topic) {
		return nil, fmt.Errorf("gemini: topic %q outside taxonomy", result.Topic)
	}
	if !result.Difficulty.Valid() {
		return nil, fmt.Errorf("gemini: invalid difficulty %q", result.Difficulty)
	}
	if result.Subtopic != nil && *result.Subtopic == "" {
		result.Subtopic = nil
	}
	return &result, nil
}
