package schedule

import (
	"sort"
	"strings"
)

// Selection is the set of person ids a multi-person view is computed for.
type Selection map[string]struct{}

// NewSelection builds a selection, ignoring blank ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Selection) Len() int {
	return len(s)
}

// Toggle adds id when absent and removes it otherwise.
func (s Selection) Toggle(id string) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Key is a stable identity for the selection, suitable for GapCursor.Sync.
func (s Selection) Key() string {
	return strings.Join(s.IDs(), "|")
}
