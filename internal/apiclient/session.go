package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Login posts the login form so the client's cookie jar picks up a session.
// It runs synchronously and is meant to be called before the page starts.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("apiclient: create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: login request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK || resp.Request.URL.Path == LoginPath {
		return fmt.Errorf("apiclient: login rejected: status %d", resp.StatusCode)
	}
	return nil
}

// FetchPage returns the HTML served at path.
func (c *Client) FetchPage(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create page request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apiclient: page request: status %d", resp.StatusCode)
	}
	if resp.Request.URL.Path == LoginPath && path != LoginPath {
		return nil, fmt.Errorf("apiclient: page request: redirected to login")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read page: %w", err)
	}
	return body, nil
}
