package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/models"
)

// MockLocationRepository is a mock implementation of the LocationRepository interface
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) UpsertLocation(ctx context.Context, userID int64, loc models.Location) error {
	return m.Called(ctx, userID, loc).Error(0)
}

func (m *MockLocationRepository) ListLocations(ctx context.Context, userID int64) ([]models.Location, error) {
	args := m.Called(ctx, userID)
	locs, _ := args.Get(0).([]models.Location)
	return locs, args.Error(1)
}

func (m *MockLocationRepository) DeleteLocations(ctx context.Context, userID int64, names []string) (int64, error) {
	args := m.Called(ctx, userID, names)
	return args.Get(0).(int64), args.Error(1)
}

func TestLocationService_AddLocation(t *testing.T) {
	tests := []struct {
		name          string
		input         models.Location
		saved         models.Location
		mockError     error
		invalidFields []string
		expectError   bool
	}{
		{
			name:  "valid location is trimmed and saved",
			input: models.Location{Name: " Paris ", Lat: "48.85 ", Lon: " 2.35"},
			saved: models.Location{Name: "Paris", Lat: "48.85", Lon: "2.35"},
		},
		{
			name:          "every field invalid",
			input:         models.Location{Name: "", Lat: "north", Lon: "181"},
			invalidFields: []string{"name", "lat", "lon"},
			expectError:   true,
		},
		{
			name:          "latitude out of range",
			input:         models.Location{Name: "Pole", Lat: "-90.5", Lon: "0"},
			invalidFields: []string{"lat"},
			expectError:   true,
		},
		{
			name:        "repository error",
			input:       models.Location{Name: "Paris", Lat: "48.85", Lon: "2.35"},
			saved:       models.Location{Name: "Paris", Lat: "48.85", Lon: "2.35"},
			mockError:   assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLocationRepository)
			svc := NewLocationService(mockRepo)

			if tt.invalidFields == nil {
				mockRepo.On("UpsertLocation", mock.Anything, int64(9), tt.saved).Return(tt.mockError)
			}

			err := svc.AddLocation(context.Background(), 9, tt.input)

			if !tt.expectError {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			if tt.invalidFields != nil {
				var fields []string
				for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
					var ve *apperr.ValidationError
					require.True(t, errors.As(e, &ve))
					fields = append(fields, ve.Field)
				}
				assert.Equal(t, tt.invalidFields, fields)
				mockRepo.AssertNotCalled(t, "UpsertLocation", mock.Anything, mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLocationService_ListLocations(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := NewLocationService(mockRepo)
	expected := []models.Location{{Name: "Oslo", Lat: "59.91", Lon: "10.75"}}
	mockRepo.On("ListLocations", mock.Anything, int64(2)).Return(expected, nil)
	mockRepo.On("ListLocations", mock.Anything, int64(3)).Return(nil, assert.AnError)

	locations, err := svc.ListLocations(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, expected, locations)

	_, err = svc.ListLocations(context.Background(), 3)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLocationService_RemoveLocations(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := NewLocationService(mockRepo)
	mockRepo.On("DeleteLocations", mock.Anything, int64(2), []string{"Oslo", "Paris"}).Return(int64(2), nil)

	n, err := svc.RemoveLocations(context.Background(), 2, []string{"Oslo", "Paris"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.RemoveLocations(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	mockRepo.AssertNumberOfCalls(t, "DeleteLocations", 1)
}
