package issue

import "strings"

// Map groups issue sets per component. Keys keep their first insertion order.
type Map[K comparable, T any] struct {
	description string
	keys        []K
	sets        map[K]*Set[T]
}

// NewMap returns an empty map with the given header description.
func NewMap[K comparable, T any](description string) *Map[K, T] {
	return &Map[K, T]{description: description, sets: make(map[K]*Set[T])}
}

// Merge appends the issues of set to the set stored for key. The stored set
// takes the description of the first merged set.
func (m *Map[K, T]) Merge(key K, set *Set[T]) {
	existing, ok := m.sets[key]
	if !ok {
		existing = NewSet[T](set.Description())
		m.sets[key] = existing
		m.keys = append(m.keys, key)
	}
	for _, is := range set.Issues() {
		existing.Add(is.Subject, is.Message)
	}
}

// Get returns the set stored for key, or nil.
func (m *Map[K, T]) Get(key K) *Set[T] {
	if m == nil {
		return nil
	}
	return m.sets[key]
}

// Keys returns the component keys in insertion order.
func (m *Map[K, T]) Keys() []K {
	if m == nil {
		return nil
	}
	return m.keys
}

// Count returns the total number of issues over all components.
func (m *Map[K, T]) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, k := range m.keys {
		n += m.sets[k].Count()
	}
	return n
}

func (m *Map[K, T]) Empty() bool {
	return m.Count() == 0
}

func (m *Map[K, T]) Description() string {
	if m == nil {
		return ""
	}
	return m.description
}

// Messages flattens every component's messages in key order.
func (m *Map[K, T]) Messages() []string {
	var out []string
	for _, k := range m.Keys() {
		out = append(out, m.sets[k].Messages()...)
	}
	return out
}

// Render writes the map description and every non-empty component set.
func (m *Map[K, T]) Render() string {
	var b strings.Builder
	if d := m.Description(); d != "" {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	if m.Empty() {
		b.WriteString("  ")
		b.WriteString(NoIssues)
		b.WriteByte('\n')
		return b.String()
	}
	for _, k := range m.keys {
		set := m.sets[k]
		if set.Empty() {
			continue
		}
		b.WriteString(set.Render())
	}
	return b.String()
}
