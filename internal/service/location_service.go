package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/validation"
)

// LocationRepository is the persistence the location service needs.
type LocationRepository interface {
	UpsertLocation(ctx context.Context, userID int64, loc models.Location) error
	ListLocations(ctx context.Context, userID int64) ([]models.Location, error)
	DeleteLocations(ctx context.Context, userID int64, names []string) (int64, error)
}

// LocationService manages each user's list of locations.
type LocationService struct {
	repo LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(repo LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

// AddLocation validates loc and saves it, replacing the coordinates of an
// existing location with the same name. Invalid input is reported as the
// joined *apperr.ValidationError of each failing field.
func (s *LocationService) AddLocation(ctx context.Context, userID int64, loc models.Location) error {
	loc = models.Location{
		Name: strings.TrimSpace(loc.Name),
		Lat:  strings.TrimSpace(loc.Lat),
		Lon:  strings.TrimSpace(loc.Lon),
	}
	if err := ValidateLocation(loc); err != nil {
		return err
	}

	if err := s.repo.UpsertLocation(ctx, userID, loc); err != nil {
		return fmt.Errorf("service: failed to save location: %w", err)
	}
	return nil
}

// ValidateLocation applies the same rules as the add form.
func ValidateLocation(loc models.Location) error {
	var errs []error
	if msg := validation.NameErrorMessage(loc.Name); msg != "" {
		errs = append(errs, &apperr.ValidationError{Field: "name", Message: msg})
	}
	for _, field := range []struct {
		value string
		axis  validation.Axis
	}{
		{loc.Lat, validation.Lat},
		{loc.Lon, validation.Lon},
	} {
		if msg := validation.ErrorMessage(validation.LatLonErrorSummary(field.value, field.axis), field.axis); msg != "" {
			errs = append(errs, &apperr.ValidationError{Field: field.axis.String(), Message: msg})
		}
	}
	return errors.Join(errs...)
}

// ListLocations returns the user's locations ordered by name.
func (s *LocationService) ListLocations(ctx context.Context, userID int64) ([]models.Location, error) {
	locations, err := s.repo.ListLocations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list locations: %w", err)
	}
	return locations, nil
}

// RemoveLocations deletes the named locations and returns the number of rows
// removed. An empty list deletes nothing.
func (s *LocationService) RemoveLocations(ctx context.Context, userID int64, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	n, err := s.repo.DeleteLocations(ctx, userID, names)
	if err != nil {
		return 0, fmt.Errorf("service: failed to remove locations: %w", err)
	}
	return n, nil
}
