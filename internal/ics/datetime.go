package ics

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateOnlyRe = regexp.MustCompile(`^\d{8}$`)
	dateTimeRe = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})?`)

	errDateOnly    = errors.New("date-only value")
	errUndecodable = errors.New("undecodable datetime")
)

// DecodeDateTime decodes an ICS DATE-TIME value. A trailing Z selects UTC,
// otherwise the value is read on the loc clock. Date-only values are rejected.
func DecodeDateTime(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errUndecodable
	}
	utc := strings.HasSuffix(value, "Z")
	clean := strings.TrimSuffix(value, "Z")
	if dateOnlyRe.MatchString(clean) {
		return time.Time{}, errDateOnly
	}

	match := dateTimeRe.FindStringSubmatch(clean)
	if match == nil {
		return time.Time{}, errUndecodable
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	hour, _ := strconv.Atoi(match[4])
	minute, _ := strconv.Atoi(match[5])
	second := 0
	if match[6] != "" {
		second, _ = strconv.Atoi(match[6])
	}

	if utc {
		loc = time.UTC
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

// IsDateOnly reports whether err marks a whole-day value.
func IsDateOnly(err error) bool {
	return errors.Is(err, errDateOnly)
}
