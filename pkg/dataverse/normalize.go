package dataverse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Normalization helpers for row values. The Web API returns data in mixed
// shapes, so these coerce known problematic data points before further
// processing. The most common case is separating missing values from an
// explicit null returned by the API.

// AsInt coerces a row value to an int, returning the default when the
// value cannot be interpreted as a number. String values may use a comma
// as the decimal separator.
func AsInt(value any, defaultValue int) int {
	parsed, ok := asFloat(value)
	if !ok {
		return defaultValue
	}

	return int(parsed)
}

// AsFloat coerces a row value to a float64, returning the default when the
// value cannot be interpreted as a number. String values may use a comma
// as the decimal separator.
func AsFloat(value any, defaultValue float64) float64 {
	parsed, ok := asFloat(value)
	if !ok {
		return defaultValue
	}

	return parsed
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case nil:
		return 0, false
	case bool:
		if typed {
			return 1, true
		}

		return 0, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(typed, ",", "."), 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

// AsString coerces a row value to a string. Booleans and nil return the
// default, separating them from actual text values.
func AsString(value any, defaultValue string) string {
	switch typed := value.(type) {
	case nil, bool:
		return defaultValue
	case string:
		return typed
	default:
		return fmt.Sprint(value)
	}
}

// AsBool coerces a row value to a bool using truthiness: nil, zero numbers
// and empty strings are false, everything else is true.
func AsBool(value any, defaultValue bool) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case float32:
		return typed != 0
	case float64:
		return typed != 0
	case string:
		return typed != ""
	default:
		return defaultValue
	}
}

// webAPITimeLayout is the second-resolution ISO form used by the Web API,
// without a timezone designator.
const webAPITimeLayout = "2006-01-02T15:04:05"

// ToWebAPITime converts a time to the Web API compatible ISO formatted
// date string. Web API dates are in UTC, zoned values are converted.
func ToWebAPITime(t time.Time) string {
	return t.UTC().Format(webAPITimeLayout) + "Z"
}

// FromWebAPITime parses a Web API ISO formatted date string of the form
// "2006-01-02T15:04:05Z" into a UTC time.
func FromWebAPITime(value string) (time.Time, error) {
	parsed, err := time.Parse(webAPITimeLayout, strings.TrimSuffix(value, "Z"))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing web API date: %w", err)
	}

	return parsed.UTC(), nil
}

// AsTime coerces a row value to a time, returning the default when the
// value is not a Web API formatted date string.
func AsTime(value any, defaultValue time.Time) time.Time {
	text, ok := value.(string)
	if !ok {
		return defaultValue
	}

	parsed, err := FromWebAPITime(text)
	if err != nil {
		return defaultValue
	}

	return parsed
}
