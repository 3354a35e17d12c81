package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

func invalidField(key string) string {
	return fmt.Sprintf("Invalid field value for field %q.", key)
}

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns 0; an invalid value is recorded in fieldErrors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], invalidField(key))
	}
	return f, fieldErrors
}

// ParseIntParam works like ParseFloatParam, returning def when the key is absent.
// Negative values are rejected.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		fieldErrors[key] = append(fieldErrors[key], invalidField(key))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseBoolParam accepts the values understood by strconv.ParseBool.
func ParseBoolParam(params url.Values, key string, fieldErrors map[string][]string) (bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return false, fieldErrors
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], invalidField(key))
	}
	return b, fieldErrors
}

// ParseClockParam parses a H:MM[:SS] service-day time. The second return value
// is false when the key is absent.
func ParseClockParam(params url.Values, key string, fieldErrors map[string][]string) (int, bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, false, fieldErrors
	}

	seconds, err := ParseClock(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], err.Error())
		return 0, false, fieldErrors
	}
	return seconds, true, fieldErrors
}
