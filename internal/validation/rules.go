package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tags under which RegisterRules installs the coordinate checks.
const (
	LatTag = "decimal_lat"
	LonTag = "decimal_lon"
)

// RegisterRules adds the coordinate checks to v so request structs can use
// `binding:"decimal_lat"` and `binding:"decimal_lon"`. Surrounding whitespace
// is ignored, matching the trimming done before values are stored.
func RegisterRules(v *validator.Validate) error {
	rules := map[string]Axis{LatTag: Lat, LonTag: Lon}
	for tag, axis := range rules {
		axis := axis
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return IsLatLonValid(strings.TrimSpace(fl.Field().String()), axis)
		})
		if err != nil {
			return fmt.Errorf("validation: register %s: %w", tag, err)
		}
	}
	return nil
}
