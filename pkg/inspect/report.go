package inspect

import (
	"strings"

	"github.com/chazu/strata/pkg/issue"
)

// Summary is the structured form of a result, used for yaml and json
// output.
type Summary struct {
	Kind     string           `json:"kind" yaml:"kind"`
	Issues   int              `json:"issues" yaml:"issues"`
	Sections []SectionSummary `json:"sections" yaml:"sections"`
}

// SectionSummary describes one issue collection of a result.
type SectionSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Count       int      `json:"count" yaml:"count"`
	Messages    []string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// findings is the common surface of issue.Set and issue.Map.
type findings interface {
	Count() int
	Description() string
	Messages() []string
	Render() string
}

type part struct {
	name   string
	issues findings
}

// block is one unit of rendering. Most blocks hold a single issue
// collection; topology and degeneration blocks render several at once.
type block struct {
	render func() string
	parts  []part
}

type report []block

func addSet[T any](r *report, name string, s *issue.Set[T]) {
	if s == nil {
		return
	}
	*r = append(*r, block{render: s.Render, parts: []part{{name, s}}})
}

func addMap[K comparable, T any](r *report, name string, m *issue.Map[K, T]) {
	if m == nil {
		return
	}
	*r = append(*r, block{render: m.Render, parts: []part{{name, m}}})
}

func (r report) nbIssues() int {
	n := 0
	for _, b := range r {
		for _, p := range b.parts {
			n += p.issues.Count()
		}
	}
	return n
}

func (r report) render() string {
	var sb strings.Builder
	for _, b := range r {
		sb.WriteString(b.render())
	}
	return sb.String()
}

func (r report) summary(kind string) Summary {
	s := Summary{Kind: kind, Issues: r.nbIssues()}
	for _, b := range r {
		for _, p := range b.parts {
			s.Sections = append(s.Sections, SectionSummary{
				Name:        p.name,
				Description: p.issues.Description(),
				Count:       p.issues.Count(),
				Messages:    p.issues.Messages(),
			})
		}
	}
	return s
}
