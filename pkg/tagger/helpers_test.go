package tagger

import "strings"

// testEditor is a fixed document with a settable view and caret.
type testEditor struct {
	text  []rune
	view  Range
	caret int
}

func newTestEditor(text string) *testEditor {
	runes := []rune(text)
	return &testEditor{text: runes, view: Range{Start: 0, End: len(runes)}}
}

func (e *testEditor) ViewBounds() Range { return e.view }
func (e *testEditor) CaretOffset() int  { return e.caret }
func (e *testEditor) Text() []rune      { return e.text }

// listAlphabet offers exactly the listed tags, minus those sharing a
// character with the query.
type listAlphabet []string

func (l listAlphabet) FilterTags(query string) []string {
	lower := strings.ToLower(query)
	var out []string
	for _, tag := range l {
		if !strings.ContainsAny(lower, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func (l listAlphabet) Compare(a, b string) int {
	return l.index(a) - l.index(b)
}

func (l listAlphabet) index(tag string) int {
	for i, t := range l {
		if t == tag {
			return i
		}
	}
	return len(l)
}

type recordingJumper struct {
	jumps []int
}

func (j *recordingJumper) Jump(offset int) bool {
	j.jumps = append(j.jumps, offset)
	return true
}

type recordingRenderer struct {
	calls [][]Marker
}

func (r *recordingRenderer) Render(markers []Marker) {
	r.calls = append(r.calls, markers)
}

type countingScroller struct {
	calls int
}

func (s *countingScroller) ScrollToNextOccurrence() bool {
	s.calls++
	return true
}

// find is a case-insensitive literal search over text.
func find(text, query string) []int {
	var out []int
	lt, lq := []rune(strings.ToLower(text)), []rune(strings.ToLower(query))
	for i := 0; i+len(lq) <= len(lt); i++ {
		if string(lt[i:i+len(lq)]) == string(lq) {
			out = append(out, i)
		}
	}
	return out
}

func tagMap(a *Assignment) map[string]int {
	out := make(map[string]int, a.Len())
	for _, e := range a.Entries() {
		out[e.Tag] = e.Offset
	}
	return out
}

func build(pairs map[string]int) *Assignment {
	b := newBuilder(len(pairs))
	for tag, loc := range pairs {
		b.put(tag, loc)
	}
	return b.build()
}
