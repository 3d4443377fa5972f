// Package validation holds the input predicates shared by the location form
// and the location API.
package validation

import (
	"regexp"
	"strconv"
	"time"
)

// Axis selects the latitude or longitude range.
type Axis int

const (
	Lat Axis = iota
	Lon
)

func (a Axis) String() string {
	if a == Lat {
		return "lat"
	}
	return "lon"
}

// Label is the human-readable field name used in error messages.
func (a Axis) Label() string {
	if a == Lat {
		return "Latitude"
	}
	return "Longitude"
}

// Bounds returns the closed interval accepted for the axis.
func (a Axis) Bounds() (lo, hi float64) {
	if a == Lat {
		return -90, 90
	}
	return -180, 180
}

// ForecastWindow is how far past today a forecast date may lie.
const ForecastWindow = 7

var decimalPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// IsDecimal reports whether s is an optionally signed, optionally fractional
// number with nothing else around it. The empty string is not decimal.
func IsDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

// IsInRange parses s and reports whether it lies inside the closed interval
// of the axis.
func IsInRange(s string, axis Axis) bool {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	lo, hi := axis.Bounds()
	return v >= lo && v <= hi
}

// ErrorSummary is the set of checks that failed for one lat/lon input.
type ErrorSummary struct {
	IsEmpty   bool
	IsDecimal bool
	IsInRange bool
}

// LatLonErrorSummary evaluates s for the axis. The range check only runs when
// the input is decimal.
func LatLonErrorSummary(s string, axis Axis) ErrorSummary {
	summary := ErrorSummary{
		IsEmpty:   s == "",
		IsDecimal: IsDecimal(s),
	}
	if summary.IsDecimal {
		summary.IsInRange = IsInRange(s, axis)
	}
	return summary
}

// Valid reports whether every check passed.
func (s ErrorSummary) Valid() bool {
	return !s.IsEmpty && s.IsDecimal && s.IsInRange
}

// IsLatLonValid reports whether s is a usable coordinate for the axis.
func IsLatLonValid(s string, axis Axis) bool {
	return LatLonErrorSummary(s, axis).Valid()
}

// IsNameValid reports whether name can key a location.
func IsNameValid(name string) bool {
	return name != ""
}

// ValidateDate reports whether d falls on a calendar day between today and
// today plus ForecastWindow days, both inclusive. Time of day is ignored.
func ValidateDate(d, now time.Time) bool {
	today := truncateToDay(now, now.Location())
	day := truncateToDay(d, now.Location())
	last := today.AddDate(0, 0, ForecastWindow)
	return !day.Before(today) && !day.After(last)
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
