package server

import (
	"sort"

	"github.com/bastiangx/tagjump/pkg/search"
	"github.com/bastiangx/tagjump/pkg/tagger"
	"github.com/charmbracelet/log"
)

// Session is one open document. It serves as the tagger's view of the
// editor and carries out jumps and scrolls on its own caret and view.
type Session struct {
	id     string
	text   []rune
	view   tagger.Range
	caret  int
	query  tagger.Query
	jumped int
	tagger *tagger.Tagger
}

func newSession(id, text string, view tagger.Range, caret int) *Session {
	s := &Session{
		id:     id,
		text:   []rune(text),
		caret:  caret,
		jumped: -1,
	}
	s.setView(view, caret)
	return s
}

// setView clamps view to the document. An empty view means the whole
// document is visible.
func (s *Session) setView(view tagger.Range, caret int) {
	if view.End <= view.Start || view.End > len(s.text) {
		view.End = len(s.text)
	}
	if view.Start < 0 || view.Start > view.End {
		view.Start = 0
	}
	s.view = view
	s.caret = max(0, min(caret, len(s.text)))
}

func (s *Session) ViewBounds() tagger.Range { return s.view }
func (s *Session) CaretOffset() int         { return s.caret }
func (s *Session) Text() []rune             { return s.text }

// Jump moves the caret to offset.
func (s *Session) Jump(offset int) bool {
	if offset < 0 || offset > len(s.text) {
		return false
	}
	s.caret = offset
	s.jumped = offset
	return true
}

// ScrollToNextOccurrence moves the view forward so that the next match of
// the current query after it becomes the first visible one.
func (s *Session) ScrollToNextOccurrence() bool {
	if s.query.Empty() {
		return false
	}
	matches, err := search.Find(s.text, s.query.Raw(), s.query.Regex)
	if err != nil {
		log.Debugf("Scroll search failed: %v", err)
		return false
	}
	i := sort.SearchInts(matches, s.view.End)
	if i == len(matches) {
		return false
	}
	width := s.view.End - s.view.Start
	start := matches[i]
	end := min(start+width, len(s.text))
	s.view = tagger.Range{Start: start, End: end}
	log.Debugf("Session %s scrolled to [%d, %d)", s.id, start, end)
	return true
}

// update runs one tagging cycle, searching the document when asked to.
func (s *Session) update(req Request) (tagger.Result, error) {
	s.query = tagger.NewQuery(req.Query, req.Regex)
	s.jumped = -1
	matches := req.Matches
	if req.Search {
		found, err := search.Find(s.text, req.Query, req.Regex)
		if err != nil {
			return tagger.Result{}, err
		}
		matches = found
	}
	res := s.tagger.MarkOrJump(req.Query, req.Regex, matches)
	if res.Jumped {
		s.query = tagger.Query{}
	}
	return res, nil
}
