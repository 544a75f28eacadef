package tagger

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Result reports what one cycle did.
type Result struct {
	Markers   []Marker
	Full      bool
	Jumped    bool
	Offset    int
	Scrolled  bool
	Discarded int
}

// Tagger owns one tagging session. Cycles are serialized: a new query is
// only accepted once the previous cycle has finished.
type Tagger struct {
	mu       sync.Mutex
	editor   Editor
	alphabet Alphabet
	renderer Renderer
	jumper   Jumper
	scroller Scroller
	observer Observer
	logger   *log.Logger
	shorten  bool
	store    *Store
}

// Option configures a Tagger.
type Option func(*Tagger)

func WithRenderer(r Renderer) Option { return func(t *Tagger) { t.renderer = r } }
func WithJumper(j Jumper) Option     { return func(t *Tagger) { t.jumper = j } }
func WithScroller(s Scroller) Option { return func(t *Tagger) { t.scroller = s } }
func WithObserver(o Observer) Option { return func(t *Tagger) { t.observer = o } }

// WithLogger replaces the default "tagger" prefixed logger.
func WithLogger(l *log.Logger) Option { return func(t *Tagger) { t.logger = l } }

// WithCompaction toggles shortening of two-character tags.
func WithCompaction(on bool) Option { return func(t *Tagger) { t.shorten = on } }

// New creates a session reading view state from editor and tags from alphabet.
func New(editor Editor, alphabet Alphabet, opts ...Option) *Tagger {
	t := &Tagger{
		editor:   editor,
		alphabet: alphabet,
		renderer: nopRenderer{},
		jumper:   nopJumper{},
		scroller: nopScroller{},
		observer: nopObserver{},
		logger:   log.Default().WithPrefix("tagger"),
		shorten:  true,
		store:    NewStore(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MarkOrJump runs one cycle: refine the matches, allocate and compact tags,
// publish markers, then jump if the query now completes exactly one tag.
func (t *Tagger) MarkOrJump(raw string, regex bool, matches []int) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	q := NewQuery(raw, regex)
	stats := CycleStats{Regex: regex, Matches: len(matches)}
	defer func() {
		stats.Duration = time.Since(start)
		t.observer.ObserveCycle(stats)
	}()

	if q.Empty() {
		t.store.commit(q, nil, EmptyAssignment(), true)
		t.renderer.Render(nil)
		stats.Full = true
		return Result{Full: true}
	}

	text := t.editor.Text()
	view := t.editor.ViewBounds()
	in := AllocInput{
		Text:     text,
		Query:    q,
		View:     view,
		Prior:    t.store.Assignment(),
		Alphabet: t.alphabet,
	}

	ref := Refine(text, matches, q, in.Prior, view, func(taggable []int) int {
		trial := in
		trial.Matches = taggable
		return Capacity(trial)
	})
	if ref.Discarded > 0 {
		t.logger.Debug("discarded matches", "query", q.Text, "count", ref.Discarded, "truncated", ref.Truncated)
	}

	in.Matches = ref.Matches
	alloc := Allocate(in)
	assignment := alloc.Assignment
	if t.shorten {
		assignment = Compact(assignment, q)
	}
	full := alloc.Full && !ref.Truncated
	if !full {
		t.logger.Debug("tag alphabet exhausted", "query", q.Text, "matches", len(ref.Matches), "tagged", assignment.Len())
	}

	t.store.commit(q, ref.Matches, assignment, full)
	markers := t.store.Markers()
	t.renderer.Render(markers)

	stats.Refined = len(ref.Matches)
	stats.Discarded = ref.Discarded
	stats.Tagged = assignment.Len()
	stats.Full = full
	res := Result{Markers: markers, Full: full, Discarded: ref.Discarded}

	if loc, ok := TrySelect(text, assignment, q); ok {
		if t.jumper.Jump(loc) {
			t.logger.Debug("jumped", "query", q.Text, "offset", loc)
			t.resetLocked()
			stats.Jumped = true
			return Result{Full: true, Jumped: true, Offset: loc, Discarded: ref.Discarded}
		}
		return res
	}

	if q.Len() > 1 && !anyVisible(assignment, view) {
		res.Scrolled = t.scroller.ScrollToNextOccurrence()
		stats.Scrolled = res.Scrolled
	}
	return res
}

func anyVisible(a *Assignment, view Range) bool {
	for loc := range a.locs {
		if view.Contains(loc) {
			return true
		}
	}
	return false
}

// JumpToNearestVisible jumps to the visible tagged match nearest after the
// caret. It reports false when nothing visible is tagged or the jump failed.
func (t *Tagger) JumpToNearestVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	loc, ok := NearestVisible(t.store.Assignment(), t.editor.ViewBounds(), t.editor.CaretOffset())
	if !ok || !t.jumper.Jump(loc) {
		return false
	}
	t.resetLocked()
	return true
}

// HasMatchBetween reports whether moving the view from old to next exposed
// a stored match, so the host knows whether a new search is worthwhile.
func (t *Tagger) HasMatchBetween(old, next Range) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return HasMatchBetween(t.store.matches, old, next)
}

// Reset clears all session state and removes any drawn markers.
func (t *Tagger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *Tagger) resetLocked() {
	hadMarkers := len(t.store.markers) > 0
	t.store.Reset()
	if hadMarkers {
		t.renderer.Render(nil)
	}
}

// Markers returns the markers currently shown.
func (t *Tagger) Markers() []Marker {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Markers()
}

// Full reports whether every taggable match holds a tag.
func (t *Tagger) Full() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Full()
}

// Query returns the normalized query of the last cycle.
func (t *Tagger) Query() Query {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Query()
}

// Snapshot returns the current assignment. Assignments are immutable, so
// the caller may keep it.
func (t *Tagger) Snapshot() *Assignment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Assignment()
}
