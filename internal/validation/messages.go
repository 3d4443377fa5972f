package validation

import "fmt"

// NameRequiredMessage is shown when the name input is empty.
const NameRequiredMessage = "Name is required."

// MissingMessage is shown when a coordinate input is empty.
func MissingMessage(axis Axis) string {
	return axis.Label() + " is required."
}

// NotDecimalMessage is shown when a coordinate input is not a number.
func NotDecimalMessage(axis Axis) string {
	return axis.Label() + " must be a decimal number."
}

// NotInRangeMessage is shown when a coordinate is outside its interval.
func NotInRangeMessage(axis Axis) string {
	lo, hi := axis.Bounds()
	return fmt.Sprintf("%s must be between %g and %g.", axis.Label(), lo, hi)
}

// ErrorMessage picks the message for a summary. A missing value wins over a
// non-decimal one, which wins over an out-of-range one. It returns "" when
// nothing failed.
func ErrorMessage(summary ErrorSummary, axis Axis) string {
	switch {
	case summary.IsEmpty:
		return MissingMessage(axis)
	case !summary.IsDecimal:
		return NotDecimalMessage(axis)
	case !summary.IsInRange:
		return NotInRangeMessage(axis)
	default:
		return ""
	}
}

// NameErrorMessage returns the message for a name input, or "".
func NameErrorMessage(name string) string {
	if IsNameValid(name) {
		return ""
	}
	return NameRequiredMessage
}
