// Package classifier talks to the external text-classification service.
// The model behind it is opaque to this application: the only contract is
// text in, emotion label plus confidence out.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable is returned whenever the classification service cannot
// produce a result: connection failures, timeouts and non-200 responses
// all collapse into it. Callers map it to 502 and must not persist
// anything for the failed call.
var ErrUnavailable = errors.New("classification service unavailable")

// Result is a single classification outcome.
type Result struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Text       string  `json:"text"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Client is an HTTP client for the classification service. The timeout
// bounds the whole call; a hung model server surfaces as ErrUnavailable
// instead of stalling the request that triggered it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a Client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify sends text to the service's /predict endpoint and returns the
// predicted emotion and confidence.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if out.Emotion == "" {
		return Result{}, fmt.Errorf("%w: empty emotion in response", ErrUnavailable)
	}
	return Result{Emotion: out.Emotion, Confidence: out.Confidence}, nil
}
