// Package tagger is the core, assigning short typeable tags to search matches
// and detecting when the typed query selects exactly one of them.
package tagger

import "time"

// Range is a half-open span of document offsets [Start, End).
type Range struct {
	Start int
	End   int
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Editor gives read-only access to the view state of the host editor.
type Editor interface {
	// ViewBounds returns the currently visible span of the document
	ViewBounds() Range

	// CaretOffset returns the caret position in the document
	CaretOffset() int

	// Text returns the document contents indexed by offset
	Text() []rune
}

// Alphabet supplies candidate tags ordered by preference.
type Alphabet interface {
	// FilterTags returns the tags usable for query, most preferred first,
	// already excluding any that collide with the query's characters
	FilterTags(query string) []string

	// Compare is the default total order over tags, used for regex queries
	Compare(a, b string) int
}

// Renderer draws tag markers. Render must not return before the markers are
// visible, since selection depends on the view state it may change.
type Renderer interface {
	Render(markers []Marker)
}

// Jumper moves the caret and reports whether a jump happened.
type Jumper interface {
	Jump(offset int) bool
}

// Scroller brings the next occurrence of the query into view.
type Scroller interface {
	ScrollToNextOccurrence() bool
}

// Observer receives timing and outcome data for every cycle.
type Observer interface {
	ObserveCycle(stats CycleStats)
}

// CycleStats describes one completed tagging cycle.
type CycleStats struct {
	Duration  time.Duration
	Regex     bool
	Matches   int
	Refined   int
	Discarded int
	Tagged    int
	Full      bool
	Jumped    bool
	Scrolled  bool
}

// ITagger is the surface the IPC server and CLI drive.
type ITagger interface {
	// MarkOrJump runs one cycle for the latest query and its raw matches
	MarkOrJump(query string, regex bool, matches []int) Result

	// JumpToNearestVisible jumps to the tagged match closest after the caret
	JumpToNearestVisible() bool

	// HasMatchBetween reports whether scrolling from old to new uncovered a match
	HasMatchBetween(old, new Range) bool

	// Reset clears all session state
	Reset()

	Markers() []Marker
	Full() bool
}

type nopRenderer struct{}

func (nopRenderer) Render([]Marker) {}

type nopJumper struct{}

func (nopJumper) Jump(int) bool { return true }

type nopScroller struct{}

func (nopScroller) ScrollToNextOccurrence() bool { return false }

type nopObserver struct{}

func (nopObserver) ObserveCycle(CycleStats) {}

var _ ITagger = (*Tagger)(nil)
