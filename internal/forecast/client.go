package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jonboulle/clockwork"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/models"
)

// Client fetches the 7-day civil-light forecast.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
}

// NewClient creates a forecast client for the endpoint at baseURL.
func NewClient(httpClient *http.Client, baseURL string, clock clockwork.Clock) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		clock:      clock,
	}
}

// Fetch requests and decodes the forecast for loc. Errors are categorized as
// *apperr.NetworkError, *apperr.StatusError or *apperr.MalformedResponseError.
func (c *Client) Fetch(ctx context.Context, loc models.Location) ([]Day, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("forecast: parse base url: %w", err)
	}
	u.RawQuery = url.Values{
		"lon":     {loc.Lon},
		"lat":     {loc.Lat},
		"ac":      {"0"},
		"unit":    {"metric"},
		"output":  {"json"},
		"tzshift": {"0"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.StatusError{StatusCode: resp.StatusCode}
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &apperr.MalformedResponseError{Err: err}
	}

	return Decode(payload, c.clock.Now())
}
