package tagger

import "unicode/utf8"

// Compact shortens two-character tags to their first character when no
// other tag starts with that character and the query does not already end
// with it or with the full tag. Offsets are never changed.
func Compact(a *Assignment, q Query) *Assignment {
	b := newBuilder(a.Len())
	for _, e := range a.Entries() {
		tag := e.Tag
		if shortenable(a, q, tag) {
			tag = firstChar(tag)
		}
		b.put(tag, e.Offset)
	}
	return b.build()
}

func shortenable(a *Assignment, q Query, tag string) bool {
	if utf8.RuneCountInString(tag) != 2 {
		return false
	}
	first := firstChar(tag)
	if a.countFirst(tag) != 1 {
		return false
	}
	if q.endsWithFold(first) || q.endsWithFold(tag) {
		return false
	}
	// a single that ends another tag would let both complete the same query
	return a.countLast(first) == 0
}
