// Package gemini is a minimal client for the generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// StatusError is a non-2xx answer other than rate limiting.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini returned %d: %s", e.Code, e.Message)
}

type Client struct {
	url      string
	apiKey   string
	deviceID func(context.Context) string
	http     *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithDeviceID attaches an x-device-id header resolved per request.
func WithDeviceID(fn func(context.Context) string) Option {
	return func(c *Client) { c.deviceID = fn }
}

func New(url, apiKey string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends prompt as a single user turn and returns the text of the
// first candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	status, body, err := c.Forward(ctx, payload)
	if err != nil {
		return "", err
	}
	if err := statusError(status, body); err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", interrors.ErrEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// Forward posts an already encoded request body and returns the upstream
// status and body untouched.
func (c *Client) Forward(ctx context.Context, payload []byte) (int, []byte, error) {
	if c.url == "" || c.apiKey == "" {
		return 0, nil, interrors.ErrAIUnconfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	if c.deviceID != nil {
		req.Header.Set("x-device-id", c.deviceID(ctx))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("gemini request failed: %s", friendlyError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read gemini response: %w", err)
	}
	logger.Debug("Gemini responded %d in %s", resp.StatusCode, time.Since(start))
	return resp.StatusCode, body, nil
}

func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusTooManyRequests {
		return interrors.ErrRateLimited
	}
	return &StatusError{Code: status, Message: errorMessage(status, body)}
}

// errorMessage extracts a readable message from an error body.
func errorMessage(status int, body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error.Message != "" {
			return errResp.Error.Message
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return "authentication failed, check your API key"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "model or endpoint not found"
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return "service temporarily unavailable"
	}

	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func friendlyError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused"
	case strings.Contains(msg, "no such host"):
		return "host not found (check the URL)"
	case strings.Contains(msg, "Client.Timeout"), strings.Contains(msg, "deadline exceeded"):
		return "request timed out"
	}
	return msg
}
