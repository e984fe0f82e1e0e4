// Package gemini implements the client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// maxErrorBody caps how much of an error response body is echoed to the user.
const maxErrorBody = 8 * 1024

// Completion failure categories. Complete wraps these with detail; callers
// classify with errors.Is.
var (
	ErrUnreachable   = errors.New("cannot reach the Gemini API")
	ErrUnauthorized  = errors.New("authorization failed for the Gemini API")
	ErrRateLimited   = errors.New("rate limited by the Gemini API")
	ErrEmptyResponse = errors.New("the Gemini API returned no usable content")
)

// Request contains the parameters for a completion request.
type Request struct {
	Model       string
	Temperature float64
	MaxTokens   int
	System      string
}

// Client issues completion requests against the Gemini API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a client. An empty baseURL selects the public endpoint.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Models returns the known Gemini model identifiers.
func Models() []string {
	return []string{
		"gemini-2.0-pro",
		"gemini-2.0-flash",
		"gemini-1.5-pro",
		"gemini-1.5-flash",
		"gemini-1.5-flash-8b",
	}
}

// generateRequest is the request body for the generateContent endpoint.
type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generationConfig carries the resolved sampling parameters. Temperature has
// no omitempty: a resolved 0.0 is a real value and must reach the service.
type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

// apiError is the error envelope Gemini returns on non-2xx statuses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends prompt with the given parameters and returns the generated
// text. It performs exactly one attempt; every failure is terminal and wraps
// one of the package's category errors.
func (c *Client) Complete(ctx context.Context, prompt string, req Request) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.System != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.handleHTTPError(resp)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: undecodable response body: %v", ErrEmptyResponse, err)
	}

	return extractText(genResp)
}

// handleHTTPError classifies a non-2xx response into a category error.
func (c *Client) handleHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w. Check your GOOGLE_API_KEY.", ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		if wait, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
			return fmt.Errorf("%w. Please wait %s and try again.", ErrRateLimited, wait)
		}
		return fmt.Errorf("%w. Please wait and try again.", ErrRateLimited)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: service error (status %d). Please try again later.", ErrUnreachable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: API error (status %d): %s", ErrEmptyResponse, resp.StatusCode, errorMessage(body))
	}
}

// errorMessage pulls the service's own message out of an error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// parseRetryAfter interprets a Retry-After header value, either a number of
// seconds or an HTTP date.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d.Round(time.Second), true
		}
	}
	return 0, false
}

// extractText returns the first candidate's concatenated text parts.
func extractText(resp generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates in response", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: candidate has no text parts", ErrEmptyResponse)
	}

	return sb.String(), nil
}
