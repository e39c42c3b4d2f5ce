// Package tasklist owns the ordered task collection and its persistence contract.
package tasklist

import (
	"fmt"
	"strings"
)

// Task is a single to-do entry.
type Task struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// Row is a task projected by a filter, paired with its position in the
// unfiltered list.
type Row struct {
	Index int
	Task  Task
}

// Filter selects which tasks a view projects.
type Filter int

const (
	FilterAll Filter = iota
	FilterDone
	FilterNotDone
)

// String returns the canonical filter name.
func (f Filter) String() string {
	switch f {
	case FilterDone:
		return "done"
	case FilterNotDone:
		return "not done"
	default:
		return "all"
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterDone:
		return t.IsCompleted
	case FilterNotDone:
		return !t.IsCompleted
	default:
		return true
	}
}

// ParseFilter parses a filter name (case-insensitive, trimmed).
// Empty input means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "done":
		return FilterDone, nil
	case "not done", "notdone", "not-done", "open":
		return FilterNotDone, nil
	}
	return FilterAll, fmt.Errorf("%w: %s", ErrInvalidFilter, s)
}
