package tagger

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

const maxTagLen = 2

// Entry is one tag and the match offset it labels.
type Entry struct {
	Tag    string
	Offset int
}

// Marker is what the renderer draws: the tag for a match under a query.
type Marker struct {
	Query  string
	Tag    string
	Offset int
}

// Assignment is an immutable bijection between tags and match offsets.
// Tags are also indexed in a patricia trie so prefix relations between
// tags can be answered without scanning.
type Assignment struct {
	tags  map[string]int
	locs  map[int]string
	index *patricia.Trie
}

// EmptyAssignment returns an assignment holding no tags.
func EmptyAssignment() *Assignment {
	return newBuilder(0).build()
}

func (a *Assignment) Len() int {
	return len(a.tags)
}

// Lookup returns the offset labelled by tag.
func (a *Assignment) Lookup(tag string) (int, bool) {
	loc, ok := a.tags[tag]
	return loc, ok
}

// TagAt returns the tag labelling offset.
func (a *Assignment) TagAt(offset int) (string, bool) {
	tag, ok := a.locs[offset]
	return tag, ok
}

// Entries returns all pairs in ascending offset order.
func (a *Assignment) Entries() []Entry {
	entries := make([]Entry, 0, len(a.tags))
	for tag, loc := range a.tags {
		entries = append(entries, Entry{Tag: tag, Offset: loc})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Offset < entries[j].Offset
	})
	return entries
}

// Markers converts the assignment to renderer triples for query q.
func (a *Assignment) Markers(q Query) []Marker {
	entries := a.Entries()
	markers := make([]Marker, len(entries))
	for i, e := range entries {
		markers[i] = Marker{Query: q.Text, Tag: e.Tag, Offset: e.Offset}
	}
	return markers
}

// countFirst counts tags beginning with the same character as tag.
func (a *Assignment) countFirst(tag string) int {
	first, size := utf8.DecodeRuneInString(tag)
	if first == utf8.RuneError {
		return 0
	}
	count := 0
	_ = a.index.VisitSubtree(patricia.Prefix(tag[:size]), func(patricia.Prefix, patricia.Item) error {
		count++
		return nil
	})
	return count
}

// countLast counts tags ending with the character c.
func (a *Assignment) countLast(c string) int {
	count := 0
	for tag := range a.tags {
		if lastChar(tag) == c {
			count++
		}
	}
	return count
}

// conflicts reports whether tag would break prefix-freeness: it is already
// used, it is a prefix of a held tag, or a held tag is a prefix of it.
func (a *Assignment) conflicts(tag string) bool {
	key := patricia.Prefix(tag)
	if a.index.MatchSubtree(key) {
		return true
	}
	found := false
	_ = a.index.VisitPrefixes(key, func(patricia.Prefix, patricia.Item) error {
		found = true
		return nil
	})
	return found
}

// suffixClash reports whether tag ends another held tag or a held tag ends
// it. Such a pair could be completed by the same keystroke.
func (a *Assignment) suffixClash(tag string) bool {
	for held := range a.tags {
		if strings.HasSuffix(held, tag) || strings.HasSuffix(tag, held) {
			return true
		}
	}
	return false
}

func firstChar(tag string) string {
	_, size := utf8.DecodeRuneInString(tag)
	return tag[:size]
}

func lastChar(tag string) string {
	_, size := utf8.DecodeLastRuneInString(tag)
	return tag[len(tag)-size:]
}

// builder accumulates pairs for a new Assignment. Assignments are never
// mutated once built.
type builder struct {
	a *Assignment
}

func newBuilder(capacity int) *builder {
	return &builder{a: &Assignment{
		tags:  make(map[string]int, capacity),
		locs:  make(map[int]string, capacity),
		index: patricia.NewTrie(),
	}}
}

// put adds the pair unless the tag or the offset is already taken.
func (b *builder) put(tag string, offset int) bool {
	if _, taken := b.a.tags[tag]; taken {
		return false
	}
	if _, taken := b.a.locs[offset]; taken {
		return false
	}
	b.a.tags[tag] = offset
	b.a.locs[offset] = tag
	b.a.index.Insert(patricia.Prefix(tag), offset)
	return true
}

func (b *builder) build() *Assignment {
	a := b.a
	b.a = nil
	return a
}
