package forecast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/models"
)

func TestDecodeDate(t *testing.T) {
	tests := []struct {
		name    string
		packed  int
		want    time.Time
		wantErr bool
	}{
		{name: "Epoch", packed: 19700101, want: time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Leap day", packed: 20240229, want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{name: "End of year", packed: 20231231, want: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{name: "February 30th", packed: 20240230, wantErr: true},
		{name: "Month 13", packed: 20241301, wantErr: true},
		{name: "Day zero", packed: 20240100, wantErr: true},
		{name: "Zero", packed: 0, wantErr: true},
		{name: "Negative", packed: -20240101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDate(tt.packed, time.UTC)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrInvalidForecastData)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func entry(date int, weather string, lo, hi, wind int) Entry {
	return Entry{Date: date, Weather: weather, Temp2m: Temperature{Min: lo, Max: hi}, Wind10mMx: wind}
}

func TestDecode(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		days, err := Decode(Response{DataSeries: []Entry{
			entry(20240310, "clear", 3, 11, 1),
			entry(20240311, "lightrain", 5, 9, 3),
			entry(20240317, "tsrain", -2, 4, 8),
		}}, now)

		require.NoError(t, err)
		assert.Equal(t, []Day{
			{Date: "Sun Mar 10", Weather: "Clear", TempRange: "3°C to 11°C", WindSpeed: ""},
			{Date: "Mon Mar 11", Weather: "Light rain", TempRange: "5°C to 9°C", WindSpeed: "Moderate (3.4-8.0 m/s)"},
			{Date: "Sun Mar 17", Weather: "Thunderstorm", TempRange: "-2°C to 4°C", WindSpeed: "Hurricane (over 32.6 m/s)"},
		}, days)
	})

	errorCases := []struct {
		name    string
		entries []Entry
	}{
		{name: "No days", entries: nil},
		{name: "Yesterday", entries: []Entry{entry(20240309, "clear", 0, 1, 2)}},
		{name: "Past the window", entries: []Entry{entry(20240318, "clear", 0, 1, 2)}},
		{name: "Not a calendar date", entries: []Entry{entry(20240230, "clear", 0, 1, 2)}},
		{name: "Unknown weather", entries: []Entry{entry(20240310, "sandstorm", 0, 1, 2)}},
		{name: "Unknown wind class", entries: []Entry{entry(20240310, "clear", 0, 1, 9)}},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			days, err := Decode(Response{DataSeries: tt.entries}, now)

			assert.Nil(t, days)
			var malformed *apperr.MalformedResponseError
			assert.True(t, errors.As(err, &malformed))
			assert.ErrorIs(t, err, apperr.ErrInvalidForecastData)
		})
	}
}

func TestClient_Fetch(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	loc := models.Location{Name: "Paris", Lat: "48.85", Lon: "2.35"}

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "2.35", q.Get("lon"))
			assert.Equal(t, "48.85", q.Get("lat"))
			assert.Equal(t, "metric", q.Get("unit"))
			assert.Equal(t, "json", q.Get("output"))
			assert.Equal(t, "0", q.Get("tzshift"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"product":"civillight","init":"2024031000","dataseries":[
				{"date":20240310,"weather":"pcloudy","temp2m":{"max":12,"min":4},"wind10m_max":2}
			]}`))
		}))
		defer srv.Close()

		client := NewClient(srv.Client(), srv.URL, clock)
		days, err := client.Fetch(context.Background(), loc)

		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, "Partly cloudy", days[0].Weather)
		assert.Equal(t, "4°C to 12°C", days[0].TempRange)
	})

	t.Run("Status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewClient(srv.Client(), srv.URL, clock).Fetch(context.Background(), loc)

		var statusErr *apperr.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	})

	t.Run("Malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"dataseries": [`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.Client(), srv.URL, clock).Fetch(context.Background(), loc)

		var malformed *apperr.MalformedResponseError
		assert.True(t, errors.As(err, &malformed))
	})

	t.Run("Network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewClient(&http.Client{Timeout: time.Second}, url, clock).Fetch(context.Background(), loc)

		var netErr *apperr.NetworkError
		assert.True(t, errors.As(err, &netErr))
	})

	t.Run("Cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewClient(srv.Client(), srv.URL, clock).Fetch(ctx, loc)

		assert.True(t, apperr.IsCancelled(err))
	})
}
