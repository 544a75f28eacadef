package tagger

import (
	"sort"
	"unicode/utf8"
)

// solves reports whether the query completes tag at loc: the query ends
// with the tag and, for literal queries, the text at loc spells whatever
// was typed before the tag.
func solves(text []rune, q Query, tag string, loc int) bool {
	if !q.endsWithFold(tag) {
		return false
	}
	runes := []rune(q.Text)
	head := runes[:len(runes)-utf8.RuneCountInString(tag)]
	if q.Regex {
		return len(head) > utf8.RuneCountInString(regexMarker)
	}
	return len(head) > 0 && regionMatchesFold(text, loc, string(head))
}

// compatible reports whether the query completes tag at loc or ends with a
// proper prefix of it, so that typing the rest of the tag would complete it.
func compatible(text []rune, q Query, tag string, loc int) bool {
	if solves(text, q, tag, loc) {
		return true
	}
	runes := []rune(tag)
	for n := 1; n < len(runes); n++ {
		if solves(text, q, string(runes[:n]), loc) {
			return true
		}
	}
	return false
}

// TrySelect returns the offset of the single tag the query completes.
// Nothing is selected when no tag, or more than one, completes it.
func TrySelect(text []rune, a *Assignment, q Query) (int, bool) {
	if q.Empty() {
		return 0, false
	}
	found, hits := -1, 0
	for _, tag := range q.suffixes() {
		loc, ok := a.Lookup(tag)
		if ok && solves(text, q, tag, loc) {
			found = loc
			hits++
		}
	}
	return found, hits == 1
}

// NearestVisible picks the jump target among visible tagged offsets: the
// first after the caret, else the last before it, else the first visible.
func NearestVisible(a *Assignment, view Range, caret int) (int, bool) {
	var visible []int
	for loc := range a.locs {
		if view.Contains(loc) {
			visible = append(visible, loc)
		}
	}
	if len(visible) == 0 {
		return 0, false
	}
	sort.Ints(visible)

	if view.Contains(caret) {
		i := sort.SearchInts(visible, caret+1)
		if i < len(visible) {
			return visible[i], true
		}
		j := sort.SearchInts(visible, caret) - 1
		if j >= 0 {
			return visible[j], true
		}
	}
	return visible[0], true
}

// HasMatchBetween reports whether any of the ascending matches lies in the
// part of next that old did not cover.
func HasMatchBetween(matches []int, old, next Range) bool {
	return anyIn(matches, next.Start, min(next.End, old.Start)) ||
		anyIn(matches, max(next.Start, old.End), next.End)
}

func anyIn(matches []int, start, end int) bool {
	if start >= end {
		return false
	}
	i := sort.SearchInts(matches, start)
	return i < len(matches) && matches[i] < end
}

