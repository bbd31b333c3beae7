package render

import (
	"strconv"
	"strings"

	"github.com/fjglira/tapparser/internal/domain"
)

// Stats counts test outcomes of a document and all of its subtests.
// A failing TODO test counts as Todo, not Failed.
type Stats struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Todo     int
	BailOuts int
	MaxDepth int
	Planned  *int
}

// Summarize walks doc and its children.
func Summarize(doc *domain.Document) Stats {
	s := Stats{Planned: doc.ExpectedTests}
	s.add(doc, 0)
	return s
}

func (s *Stats) add(doc *domain.Document, depth int) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	if doc.BailedOut() {
		s.BailOuts++
	}
	for i := range doc.Tests {
		t := &doc.Tests[i]
		if t.Children != nil {
			s.add(t.Children, depth+1)
		}
		if t.Synthetic() {
			continue
		}
		s.Total++
		key, _, _ := t.Directive()
		switch {
		case key == domain.DirectiveSkip:
			s.Skipped++
		case key == domain.DirectiveTodo:
			s.Todo++
		case t.OK:
			s.Passed++
		default:
			s.Failed++
		}
	}
}

// Failure is a failing, non-TODO test located by its path in the tree.
type Failure struct {
	Path        string
	Number      int
	Diagnostics any
}

// Failures lists failing tests depth-first, parents after their subtests.
func Failures(doc *domain.Document) []Failure {
	var out []Failure
	collectFailures(doc, nil, &out)
	return out
}

func collectFailures(doc *domain.Document, path []string, out *[]Failure) {
	for i := range doc.Tests {
		t := &doc.Tests[i]
		testPath := append(path[:len(path):len(path)], testName(t))
		if t.Children != nil {
			collectFailures(t.Children, testPath, out)
		}
		if t.Synthetic() || t.OK {
			continue
		}
		if key, _, _ := t.Directive(); key == domain.DirectiveTodo {
			continue
		}
		*out = append(*out, Failure{
			Path:        strings.Join(testPath, " > "),
			Number:      t.Number,
			Diagnostics: t.Diagnostics,
		})
	}
}

func testName(t *domain.TestResult) string {
	if t.Description != nil {
		return *t.Description
	}
	if t.Synthetic() {
		return "(subtests)"
	}
	return "#" + strconv.Itoa(t.Number)
}
