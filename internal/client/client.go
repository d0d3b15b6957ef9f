package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"oauth-relay/internal/models"
	"oauth-relay/internal/version"
	"strings"
	"time"
)

var ErrNotAuthenticated = errors.New("not authenticated: exchange a code first")

// APIError is a non-2xx response from the relay.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("relay returned %d %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("relay returned %d %s", e.StatusCode, e.Code)
}

// Client talks to the relay backend on behalf of a single user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	logger     *slog.Logger
}

func New(baseURL string, store TokenStore, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		logger:     logger,
	}
}

// Authenticated reports whether a session token is stored.
func (c *Client) Authenticated() bool {
	_, err := c.store.Load()
	return err == nil
}

// SendCode posts a grant code to the relay and stores the returned session token.
func (c *Client) SendCode(ctx context.Context, code, state string) (string, error) {
	body, err := json.Marshal(map[string]string{"code": code, "state": state})
	if err != nil {
		return "", fmt.Errorf("failed to encode code request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/code", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		JWT string `json:"jwt"`
	}
	if err := c.do(req, &resp); err != nil {
		c.logger.Error("code exchange failed", "error", err)
		return "", err
	}
	if resp.JWT == "" {
		return "", fmt.Errorf("relay response carried no session token")
	}

	if err := c.store.Save(resp.JWT); err != nil {
		return "", err
	}

	c.logger.Debug("session token stored")
	return resp.JWT, nil
}

// FetchRepos performs the authenticated resource request. It refuses to send
// anything when no session token is stored.
func (c *Client) FetchRepos(ctx context.Context) ([]json.RawMessage, error) {
	sessionToken, err := c.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoStoredToken) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/repos", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sessionToken)

	var repos []json.RawMessage
	if err := c.do(req, &repos); err != nil {
		c.logger.Error("resource request failed", "error", err)
		return nil, err
	}

	return repos, nil
}

// Logout forgets the stored session token.
func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("relay-client"))
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		var body models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			apiErr.Code = body.Error
			apiErr.Description = body.ErrorDescription
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode relay response: %w", err)
	}
	return nil
}
