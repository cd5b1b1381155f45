package ics

import (
	"regexp"
	"strings"

	"github.com/julianstephens/freeweek/internal/models"
)

var lineBreakRe = regexp.MustCompile(`\r?\n`)

// Unfold joins folded continuation lines onto the previous logical line.
// Every logical line is returned trimmed.
func Unfold(text string) []string {
	physical := lineBreakRe.Split(text, -1)
	lines := make([]string, 0, len(physical))
	for _, line := range physical {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			last := ""
			if n := len(lines); n > 0 {
				last = lines[n-1]
				lines = lines[:n-1]
			}
			lines = append(lines, last+strings.TrimSpace(line))
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// Tokenize collects the VEVENT blocks of unfolded lines. The second return
// value counts blocks dropped for a missing DTSTART or DTEND.
func Tokenize(lines []string) ([]models.RawEvent, int) {
	var (
		events  []models.RawEvent
		current *models.RawEvent
		dropped int
	)

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			current = &models.RawEvent{}
		case line == "END:VEVENT":
			if current != nil {
				if current.DTStart != "" && current.DTEnd != "" {
					events = append(events, *current)
				} else {
					dropped++
				}
			}
			current = nil
		case current == nil:
			continue
		case strings.HasPrefix(line, "DTSTART"):
			current.DTStart = propertyValue(line)
		case strings.HasPrefix(line, "DTEND"):
			current.DTEnd = propertyValue(line)
		case strings.HasPrefix(line, "SUMMARY"):
			current.Summary = propertyValue(line)
		case strings.HasPrefix(line, "RRULE"):
			current.RRule = propertyValue(line)
		}
	}

	return events, dropped
}

// propertyValue returns everything after the first colon.
func propertyValue(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return value
}
