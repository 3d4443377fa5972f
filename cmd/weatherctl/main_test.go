package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"weather-dashboard/internal/forecast"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Locations() []models.Location {
	args := m.Called()
	return args.Get(0).([]models.Location)
}

func (m *MockSession) AddLocation(ctx context.Context, loc models.Location) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *MockSession) Remove(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockSession) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSession) Forecast(ctx context.Context, name string) (page.ForecastView, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(page.ForecastView), args.Error(1)
}

func TestRun_List(t *testing.T) {
	s := new(MockSession)
	s.On("Locations").Return([]models.Location{{Name: "Oslo", Lat: "59.91", Lon: "10.75"}})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, s, []string{"list"}))

	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "Oslo")
	assert.Contains(t, out.String(), "10.75")
}

func TestRun_ListEmpty(t *testing.T) {
	s := new(MockSession)
	s.On("Locations").Return([]models.Location{})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, s, []string{"list"}))
	assert.Equal(t, "No locations saved.\n", out.String())
}

func TestRun_Add(t *testing.T) {
	ctx := context.Background()
	s := new(MockSession)
	s.On("AddLocation", ctx, models.Location{Name: "Oslo", Lat: "59.91", Lon: "10.75"}).Return(nil)

	var out bytes.Buffer
	require.NoError(t, run(ctx, &out, s, []string{"add", "Oslo", "59.91", "10.75"}))
	assert.Equal(t, "Saved Oslo.\n", out.String())
	s.AssertExpectations(t)
}

func TestRun_RemoveError(t *testing.T) {
	ctx := context.Background()
	s := new(MockSession)
	s.On("Remove", ctx, "Nowhere").Return(page.ErrUnknownLocation)

	err := run(ctx, &bytes.Buffer{}, s, []string{"remove", "Nowhere"})
	assert.ErrorIs(t, err, page.ErrUnknownLocation)
}

func TestRun_Clear(t *testing.T) {
	ctx := context.Background()
	s := new(MockSession)
	s.On("Locations").Return([]models.Location{
		{Name: "Oslo", Lat: "59.91", Lon: "10.75"},
		{Name: "Paris", Lat: "48.85", Lon: "2.35"},
	})
	s.On("Clear", ctx).Return(nil)

	var out bytes.Buffer
	require.NoError(t, run(ctx, &out, s, []string{"clear"}))
	assert.Equal(t, "Removed 2 locations.\n", out.String())
	s.AssertExpectations(t)
}

func TestRun_ClearError(t *testing.T) {
	ctx := context.Background()
	s := new(MockSession)
	s.On("Locations").Return([]models.Location{{Name: "Oslo", Lat: "59.91", Lon: "10.75"}})
	s.On("Clear", ctx).Return(errors.New("backend down"))

	var out bytes.Buffer
	assert.EqualError(t, run(ctx, &out, s, []string{"clear"}), "backend down")
	assert.Empty(t, out.String())
}

func TestRun_Forecast(t *testing.T) {
	ctx := context.Background()
	s := new(MockSession)
	s.On("Forecast", ctx, "Oslo").Return(page.ForecastView{
		Location: models.Location{Name: "Oslo", Lat: "59.91", Lon: "10.75"},
		State:    forecast.StateDisplayed,
		Days:     []forecast.Day{{Date: "Mon Jan 5", Weather: "Clear", TempRange: "-3 to 2 °C", WindSpeed: "Light"}},
		ImageURL: "http://example.com/image.png",
	}, nil)

	var out bytes.Buffer
	require.NoError(t, run(ctx, &out, s, []string{"forecast", "Oslo"}))
	assert.Contains(t, out.String(), "Forecast for Oslo")
	assert.Contains(t, out.String(), "Mon Jan 5")
	assert.Contains(t, out.String(), "Image: http://example.com/image.png")
}

func TestRun_ForecastDialogError(t *testing.T) {
	ctx := context.Background()
	s := new(MockSession)
	s.On("Forecast", ctx, "Oslo").Return(page.ForecastView{State: forecast.StateError, Error: "service down"}, nil)

	err := run(ctx, &bytes.Buffer{}, s, []string{"forecast", "Oslo"})
	assert.EqualError(t, err, "service down")
}

func TestRun_Usage(t *testing.T) {
	tests := [][]string{
		{"bogus"},
		{"add", "Oslo"},
		{"remove"},
		{"list", "extra"},
	}
	for _, args := range tests {
		err := run(context.Background(), &bytes.Buffer{}, new(MockSession), args)
		assert.True(t, errors.Is(err, errUsage), "args %v", args)
	}
}
