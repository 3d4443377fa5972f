// Package apiclient issues JSON requests against the location API on behalf
// of the page. Transport runs off the event loop; callbacks run on it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/eventloop"
	"weather-dashboard/internal/models"
)

// API paths served by the backend.
const (
	AddLocationPath     = "/api/add-location"
	RemoveLocationsPath = "/api/remove-locations"
	GetLocationsPath    = "/api/get-locations"
	LoginPath           = "/login"
)

// Navigator performs a full page navigation.
type Navigator interface {
	Navigate(url string)
}

// Hooks run around every call. Before runs when the call is issued; After
// runs once onSuccess has returned, and only on the success path.
type Hooks struct {
	Before func()
	After  func()
}

// Response is the union of the fields the backend answers with.
type Response struct {
	Message     string            `json:"message"`
	ChangeToURL string            `json:"changeToURL"`
	Locations   []models.Location `json:"locations"`
}

// Client talks to the backend with the page's session cookie.
type Client struct {
	baseURL   string
	http      *http.Client
	loop      eventloop.Poster
	navigator Navigator
	hooks     Hooks
	logger    zerolog.Logger
}

// NewClient creates a client for the backend at baseURL. httpClient should
// carry a cookie jar so the session survives between calls.
func NewClient(baseURL string, httpClient *http.Client, loop eventloop.Poster, nav Navigator, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		loop:      loop,
		navigator: nav,
		logger:    logger,
	}
}

// SetHooks replaces the before/after hooks.
func (c *Client) SetHooks(h Hooks) {
	c.hooks = h
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call issues one request. Every failure reaches onError: transport errors,
// undecodable bodies, non-ok statuses (as *apperr.RequestError) and session
// redirects (as apperr.ErrAccessDenied, after navigating).
func (c *Client) Call(ctx context.Context, path string, onSuccess func(Response), onError func(error), payload any, method string) {
	if method == "" {
		method = http.MethodPost
	}
	if c.hooks.Before != nil {
		c.hooks.Before()
	}

	c.loop.Go(func() func() {
		status, resp, err := c.roundTrip(ctx, path, payload, method)
		return func() {
			c.settle(path, status, resp, err, onSuccess, onError)
		}
	})
}

func (c *Client) roundTrip(ctx context.Context, path string, payload any, method string) (int, Response, error) {
	var body io.Reader
	if method != http.MethodGet {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, Response{}, fmt.Errorf("apiclient: encode payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, Response{}, fmt.Errorf("apiclient: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return 0, Response{}, &apperr.NetworkError{Err: err}
	}
	defer httpResp.Body.Close()

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return httpResp.StatusCode, Response{}, &apperr.MalformedResponseError{Err: err}
	}
	return httpResp.StatusCode, resp, nil
}

func (c *Client) settle(path string, status int, resp Response, err error, onSuccess func(Response), onError func(error)) {
	fail := func(err error) {
		c.logger.Debug().Err(err).Str("path", path).Msg("api call failed")
		if onError != nil {
			onError(err)
		}
	}

	switch {
	case err != nil:
		fail(err)
		return
	case status < 200 || status > 299:
		fail(&apperr.RequestError{Message: resp.Message})
		return
	case resp.ChangeToURL != "":
		c.navigator.Navigate(c.resolve(resp.ChangeToURL))
		fail(apperr.ErrAccessDenied)
		return
	}

	if onSuccess != nil {
		onSuccess(resp)
	}
	if c.hooks.After != nil {
		c.hooks.After()
	}
}

func (c *Client) resolve(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() {
		return target
	}
	return c.baseURL + "/" + strings.TrimLeft(target, "/")
}

// AddLocation upserts a location by name.
func (c *Client) AddLocation(ctx context.Context, loc models.Location, onSuccess func(Response), onError func(error)) {
	c.Call(ctx, AddLocationPath, onSuccess, onError, loc, http.MethodPost)
}

// RemoveLocationsByNames deletes the named locations. The backend reports the
// number of deleted rows in Message.
func (c *Client) RemoveLocationsByNames(ctx context.Context, names []string, onSuccess func(Response), onError func(error)) {
	payload := struct {
		LocationNames []string `json:"locationNames"`
	}{LocationNames: names}
	c.Call(ctx, RemoveLocationsPath, onSuccess, onError, payload, http.MethodPost)
}

// GetLocations lists the user's locations.
func (c *Client) GetLocations(ctx context.Context, onSuccess func(Response), onError func(error)) {
	c.Call(ctx, GetLocationsPath, onSuccess, onError, nil, http.MethodGet)
}
