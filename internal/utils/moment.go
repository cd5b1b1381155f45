package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var momentParser = newMomentParser()

func newMomentParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

var momentLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

// ParseMoment reads an absolute timestamp or an English phrase such as
// "tomorrow 10am" or "next wednesday at 2pm", relative to base and in base's zone.
func ParseMoment(text string, base time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	for _, layout := range momentLayouts {
		if t, err := time.ParseInLocation(layout, text, base.Location()); err == nil {
			return t, nil
		}
	}

	r, err := momentParser.Parse(text, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("can't parse %q: %w", text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("can't parse %q as a time", text)
	}
	return r.Time.In(base.Location()), nil
}
