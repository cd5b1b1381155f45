package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/freeweek/internal/constants"
)

var (
	colonClockRe   = regexp.MustCompile(`^\d{1,2}:\d{1,2}(:\d{1,2})?$`)
	compactClockRe = regexp.MustCompile(`^\d{3,4}$`)
	hourOnlyRe     = regexp.MustCompile(`^\d{1,2}$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ClockToMinutes converts HH:MM or HH:MM:SS to minutes since midnight.
// Seconds are truncated.
func ClockToMinutes(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		if s, err := strconv.Atoi(parts[2]); err != nil || s < 0 || s > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// MinutesToClock renders minutes since midnight as HH:MM:SS.
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// HourClock renders a whole hour as HH:00:00.
func HourClock(hour int) string {
	return fmt.Sprintf("%02d:00:00", hour)
}

// FormatClock12 renders minutes since midnight as "9:05 AM".
func FormatClock12(minutes int) string {
	hours := minutes / 60
	period := "AM"
	if hours%24 >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes%60, period)
}

// FormatClockString renders an HH:MM:SS value in 12-hour form, or returns it unchanged.
func FormatClockString(clock string) string {
	m, ok := ClockToMinutes(clock)
	if !ok {
		return clock
	}
	return FormatClock12(m)
}

// NormalizeClock accepts loosely typed times such as "530", "5:30pm" or
// "5.30 p.m." and returns a canonical HH:MM:SS value.
func NormalizeClock(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("empty time")
	}
	cleaned := strings.ReplaceAll(whitespaceRe.ReplaceAllString(strings.ToLower(value), ""), ".", "")

	suffix := ""
	core := cleaned
	if strings.HasSuffix(cleaned, "am") || strings.HasSuffix(cleaned, "pm") {
		suffix = cleaned[len(cleaned)-2:]
		core = cleaned[:len(cleaned)-2]
	}

	var h, m, s string
	switch {
	case colonClockRe.MatchString(core):
		parts := strings.Split(core, ":")
		h, m, s = parts[0], parts[1], "0"
		if len(parts) == 3 {
			s = parts[2]
		}
	case compactClockRe.MatchString(core):
		h, m, s = core[:len(core)-2], core[len(core)-2:], "0"
	case hourOnlyRe.MatchString(core):
		h, m, s = core, "0", "0"
	default:
		return "", fmt.Errorf("unrecognized time %q", value)
	}

	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	if minutes > 59 || seconds > 59 {
		return "", fmt.Errorf("minutes and seconds must be at most 59 in %q", value)
	}

	if suffix != "" {
		if hours < 1 || hours > 12 {
			return "", fmt.Errorf("hour must be 1-12 with am/pm in %q", value)
		}
		if suffix == "pm" && hours < 12 {
			hours += 12
		}
		if suffix == "am" && hours == 12 {
			hours = 0
		}
	}
	if hours > 23 {
		return "", fmt.Errorf("hour must be at most 23 in %q", value)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds), nil
}

// WeekStart returns local midnight of the most recent Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -offset)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Format(constants.DateFormat) == b.Format(constants.DateFormat)
}

// MinutesIntoDay returns the minutes elapsed since local midnight of t.
func MinutesIntoDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
