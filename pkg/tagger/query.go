package tagger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// regexMarker is prepended to regex queries so they never collide with a
// literal query of the same text.
const regexMarker = " "

// Query is the normalized text the user is typing.
type Query struct {
	Text  string
	Regex bool
}

// NewQuery normalizes raw input. The first character keeps its case and the
// rest is lowercased, unless the query is a regex which is kept verbatim
// behind a marker.
func NewQuery(raw string, regex bool) Query {
	if raw == "" {
		return Query{Regex: regex}
	}
	if regex {
		return Query{Text: regexMarker + raw, Regex: true}
	}
	first, size := utf8.DecodeRuneInString(raw)
	return Query{Text: string(first) + strings.ToLower(raw[size:])}
}

// Empty reports whether nothing has been typed.
func (q Query) Empty() bool {
	return q.Text == ""
}

// Len returns the query length in characters.
func (q Query) Len() int {
	return utf8.RuneCountInString(q.Text)
}

// Raw returns the query without the regex marker.
func (q Query) Raw() string {
	if q.Regex {
		return strings.TrimPrefix(q.Text, regexMarker)
	}
	return q.Text
}

// endsWithFold reports whether the query ends with s, ignoring case.
func (q Query) endsWithFold(s string) bool {
	return strings.HasSuffix(strings.ToLower(q.Text), strings.ToLower(s))
}

// fits reports whether a fresh tag can be typed after this query. A tag that
// is already a prefix or a suffix of the query could never be retyped.
func (q Query) fits(tag string) bool {
	lower := strings.ToLower(q.Text)
	return !strings.HasPrefix(lower, tag) && !strings.HasSuffix(lower, tag)
}

// suffixes returns the last one and two characters of the query, lowercased.
// Only these can name a tag the query ends with.
func (q Query) suffixes() []string {
	runes := []rune(strings.ToLower(q.Text))
	var out []string
	for n := 1; n <= maxTagLen && n < len(runes); n++ {
		out = append(out, string(runes[len(runes)-n:]))
	}
	return out
}

// regionMatchesFold reports whether text starting at offset spells s,
// ignoring case.
func regionMatchesFold(text []rune, offset int, s string) bool {
	if offset < 0 {
		return false
	}
	i := offset
	for _, r := range s {
		if i >= len(text) {
			return false
		}
		if unicode.ToLower(text[i]) != unicode.ToLower(r) {
			return false
		}
		i++
	}
	return true
}
