package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// MinutesPerDay bounds every minute-of-day value; slots never cross midnight.
const MinutesPerDay = 1440

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidSlot       = errors.New("invalid slot")
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ToMinutes parses a 24-hour "HH:MM" wall-clock string into minutes since
// midnight (0-1439).
func ToMinutes(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, nil
}

// ToTimeString formats minutes since midnight as zero-padded "HH:MM".
// Values outside [0, 1439] have no same-day representation.
func ToTimeString(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes of day", ErrInvalidSlot, minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}
