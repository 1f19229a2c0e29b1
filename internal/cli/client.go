package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/dynasty/internal/domain/types"
)

// ErrUnexpectedStatus is returned for non-2xx answers without an error body.
var ErrUnexpectedStatus = errors.New("unexpected status")

// APIError is a non-2xx answer carrying the server's {code, message} body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to the league HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL, e.g. "http://localhost:9080".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ReportGame posts a final score.
func (c *Client) ReportGame(ctx context.Context, req types.GameRequest) (types.GameOutcome, error) {
	var out types.GameOutcome
	err := c.do(ctx, http.MethodPost, "/games", req, &out)
	return out, err
}

// LogRecruit posts a recruiting report.
func (c *Client) LogRecruit(ctx context.Context, req types.RecruitRequest) (types.RecruitEntry, error) {
	var out types.RecruitEntry
	err := c.do(ctx, http.MethodPost, "/recruits", req, &out)
	return out, err
}

// Standings fetches the ranked table.
func (c *Client) Standings(ctx context.Context) ([]types.Standing, error) {
	var out []types.Standing
	err := c.do(ctx, http.MethodGet, "/standings", nil, &out)
	return out, err
}

// Streaks fetches active streaks.
func (c *Client) Streaks(ctx context.Context) (types.Streaks, error) {
	var out types.Streaks
	err := c.do(ctx, http.MethodGet, "/streaks", nil, &out)
	return out, err
}

// Rivalry fetches the head-to-head tally.
func (c *Client) Rivalry(ctx context.Context) (types.Rivalry, error) {
	var out types.Rivalry
	err := c.do(ctx, http.MethodGet, "/rivalry", nil, &out)
	return out, err
}

// Battles fetches reconciled recruiting battles.
func (c *Client) Battles(ctx context.Context) (types.Battles, error) {
	var out types.Battles
	err := c.do(ctx, http.MethodGet, "/recruits/battles", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e types.Error
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Message}
		}
		return fmt.Errorf("%s %s: %w %d", method, path, ErrUnexpectedStatus, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
