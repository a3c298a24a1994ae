// Package client talks to the activities API on behalf of the board.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// ErrNetwork is returned when a call never produced a usable response:
// the transport failed or the body could not be decoded.
var ErrNetwork = errors.New("activities api unreachable")

// APIError is a non-2xx answer from the activities API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("activities api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("activities api: status %d: %s", e.StatusCode, e.Detail)
}

// maxBodyBytes bounds what we are willing to read from the API.
const maxBodyBytes = 1 << 20

// Client is a typed HTTP client for the activities API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// New constructs a Client. baseURL is the API root, e.g. "http://localhost:8000".
func New(baseURL string, hc *http.Client, log *zap.SugaredLogger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     log.Named("client"),
	}
}

// ListActivities handles GET /activities.
func (c *Client) ListActivities(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/activities", &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Signup handles POST /activities/{activity}/signup?email=E and returns the server message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	var resp model.MessageResponse
	if err := c.do(ctx, http.MethodPost, c.mutationURL(activity, "signup", email), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Unregister handles DELETE /activities/{activity}/participants?email=E and returns the server message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	var resp model.MessageResponse
	if err := c.do(ctx, http.MethodDelete, c.mutationURL(activity, "participants", email), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) mutationURL(activity, action, email string) string {
	return fmt.Sprintf("%s/activities/%s/%s?email=%s",
		c.baseURL, EscapeComponent(activity), action, EscapeComponent(email))
}

// EscapeComponent percent-encodes s for use as a single path segment or query value.
// Spaces become %20, not '+'.
func EscapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c *Client) do(ctx context.Context, method, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, reqID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr model.ErrorResponse
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return fmt.Errorf("%w: decode error body (status %d): %v", ErrNetwork, resp.StatusCode, err)
		}
		c.log.Debugw("api error", "method", method, "url", rawURL, "status", resp.StatusCode, "detail", apiErr.Detail)
		return &APIError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode body: %v", ErrNetwork, err)
	}
	return nil
}
