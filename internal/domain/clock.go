package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidStartTime = errors.New("invalid start time")

// ParseClock parses a 24-hour "HH:MM" value into minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as HH:MM. Values past
// midnight keep counting hours (25:10) so late routes stay ordered.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
