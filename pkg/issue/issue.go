// Package issue holds the reporting primitives shared by every inspector:
// ordered sets of flagged subjects with a diagnostic message, and maps of
// such sets keyed by model component.
//
// Issues are findings, not errors. An empty set means no defect of that
// kind was found.
package issue

import (
	"strings"
)

// NoIssues is the sentinel line rendered for an empty set.
const NoIssues = "No issues."

// Issue is one flagged subject with its diagnostic text.
type Issue[T any] struct {
	Subject T
	Message string
}

// Set is an insertion-ordered sequence of issues. Duplicates are kept.
type Set[T any] struct {
	description string
	issues      []Issue[T]
}

// NewSet returns an empty set with the given header description.
func NewSet[T any](description string) *Set[T] {
	return &Set[T]{description: description}
}

// Add appends an issue to the end of the set.
func (s *Set[T]) Add(subject T, message string) {
	s.issues = append(s.issues, Issue[T]{Subject: subject, Message: message})
}

// Count returns the number of issues.
func (s *Set[T]) Count() int {
	if s == nil {
		return 0
	}
	return len(s.issues)
}

// Empty reports whether the set holds no issue.
func (s *Set[T]) Empty() bool {
	return s.Count() == 0
}

// Issues returns the issues in insertion order.
func (s *Set[T]) Issues() []Issue[T] {
	if s == nil {
		return nil
	}
	return s.issues
}

// Subjects returns the flagged subjects in insertion order.
func (s *Set[T]) Subjects() []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s.issues))
	for i, is := range s.issues {
		out[i] = is.Subject
	}
	return out
}

// Messages returns the diagnostic messages in insertion order.
func (s *Set[T]) Messages() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.issues))
	for i, is := range s.issues {
		out[i] = is.Message
	}
	return out
}

func (s *Set[T]) Description() string {
	if s == nil {
		return ""
	}
	return s.description
}

func (s *Set[T]) SetDescription(d string) {
	s.description = d
}

// Render writes the description (when set) followed by one line per issue,
// or the NoIssues sentinel when the set is empty.
func (s *Set[T]) Render() string {
	var b strings.Builder
	if d := s.Description(); d != "" {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	if s.Empty() {
		b.WriteString("  ")
		b.WriteString(NoIssues)
		b.WriteByte('\n')
		return b.String()
	}
	for _, is := range s.issues {
		b.WriteString("  - ")
		b.WriteString(is.Message)
		b.WriteByte('\n')
	}
	return b.String()
}
