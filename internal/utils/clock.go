package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses a service-day time of the form H:MM or H:MM:SS into seconds.
// Hours may exceed 23 for trips running past midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q: expected H:MM or H:MM:SS", value)
	}

	seconds := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q: %q is not a number", value, part)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("invalid time %q: %q out of range", value, part)
		}
		seconds = seconds*60 + n
	}
	if len(parts) == 2 {
		seconds *= 60
	}
	return seconds, nil
}

// MustParseClock is ParseClock for constant input; it panics on error.
func MustParseClock(value string) int {
	seconds, err := ParseClock(value)
	if err != nil {
		panic(err)
	}
	return seconds
}

// FormatClock formats seconds after midnight as HH:MM:SS.
func FormatClock(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, seconds/3600, seconds/60%60, seconds%60)
}

// FormatClockShort formats seconds after midnight as H:MM, adding seconds only when non-zero.
func FormatClockShort(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	if seconds%60 != 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, seconds/3600, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/3600, seconds/60%60)
}

// FormatDuration renders a duration in seconds compactly, e.g. 1h2m, 9m1s or 0s.
func FormatDuration(seconds int) string {
	if seconds == 0 {
		return "0s"
	}

	var b strings.Builder
	if seconds < 0 {
		b.WriteByte('-')
		seconds = -seconds
	}
	if h := seconds / 3600; h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m := seconds / 60 % 60; m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if s := seconds % 60; s > 0 {
		fmt.Fprintf(&b, "%ds", s)
	}
	return b.String()
}
