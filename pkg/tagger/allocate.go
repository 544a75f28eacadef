package tagger

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// AllocInput is everything one allocation needs. Prior is never modified.
type AllocInput struct {
	Text     []rune
	Matches  []int
	Query    Query
	View     Range
	Prior    *Assignment
	Alphabet Alphabet
}

// Allocation is the new assignment and whether every match received a tag.
type Allocation struct {
	Assignment *Assignment
	Full       bool
}

// Allocate labels matches, keeping as many tags from the prior assignment
// as possible and handing fresh tags to the rest, on-screen matches first.
func Allocate(in AllocInput) Allocation {
	kept := transfer(in)

	if kept.Len() > 0 {
		if in.Query.Regex && allWithin(kept, in.View) || hasTagSuffixInView(in.Text, kept, in.Query, in.View) {
			return Allocation{Assignment: kept, Full: coversAll(kept, in.Matches)}
		}
	}

	vacant := vacancies(in.Matches, kept, in.View)
	if len(vacant) == 0 {
		return Allocation{Assignment: kept, Full: true}
	}

	tags := freshTags(in, kept, len(vacant))
	b := newBuilder(kept.Len() + len(tags))
	for _, e := range kept.Entries() {
		b.put(e.Tag, e.Offset)
	}
	for i, tag := range tags {
		b.put(tag, vacant[i])
	}
	return Allocation{Assignment: b.build(), Full: len(tags) >= len(vacant)}
}

// Capacity returns how many matches could receive a fresh tag this cycle.
func Capacity(in AllocInput) int {
	kept := transfer(in)
	return len(freshTags(in, kept, -1))
}

// transfer keeps every prior pair whose offset is still a match or whose
// tag is compatible with the query: typed in full or partly typed.
func transfer(in AllocInput) *Assignment {
	if in.Prior == nil {
		return EmptyAssignment()
	}
	present := make(map[int]struct{}, len(in.Matches))
	for _, loc := range in.Matches {
		present[loc] = struct{}{}
	}

	b := newBuilder(in.Prior.Len())
	for _, e := range in.Prior.Entries() {
		_, still := present[e.Offset]
		if still || compatible(in.Text, in.Query, e.Tag, e.Offset) {
			b.put(e.Tag, e.Offset)
		}
	}
	return b.build()
}

func allWithin(a *Assignment, view Range) bool {
	for _, loc := range a.tags {
		if !view.Contains(loc) {
			return false
		}
	}
	return true
}

// hasTagSuffixInView reports whether a visible tag already completes the query.
func hasTagSuffixInView(text []rune, a *Assignment, q Query, view Range) bool {
	for _, tag := range q.suffixes() {
		if loc, ok := a.Lookup(tag); ok && view.Contains(loc) && solves(text, q, tag, loc) {
			return true
		}
	}
	return false
}

func coversAll(a *Assignment, matches []int) bool {
	for _, loc := range matches {
		if _, ok := a.TagAt(loc); !ok {
			return false
		}
	}
	return true
}

// vacancies lists untagged matches, on-screen before off-screen, each part
// in ascending offset order.
func vacancies(matches []int, kept *Assignment, view Range) []int {
	var onScreen, offScreen []int
	for _, loc := range matches {
		if _, ok := kept.TagAt(loc); ok {
			continue
		}
		if view.Contains(loc) {
			onScreen = append(onScreen, loc)
		} else {
			offScreen = append(offScreen, loc)
		}
	}
	sort.Ints(onScreen)
	sort.Ints(offScreen)
	return append(onScreen, offScreen...)
}

// freshTags picks up to need unused tags, singles first. A negative need
// asks for as many as possible.
func freshTags(in AllocInput, kept *Assignment, need int) []string {
	if in.Alphabet == nil {
		return nil
	}
	candidates := in.Alphabet.FilterTags(in.Query.Text)
	if in.Query.Regex {
		sorted := append([]string(nil), candidates...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return in.Alphabet.Compare(sorted[i], sorted[j]) < 0
		})
		candidates = sorted
	}

	follow := followChars(in)
	var singles, pairs []string
	for _, tag := range candidates {
		n := utf8.RuneCountInString(tag)
		if n < 1 || n > maxTagLen || kept.conflicts(tag) || kept.suffixClash(tag) || !in.Query.fits(tag) {
			continue
		}
		if _, blocked := follow[firstChar(tag)]; blocked {
			continue
		}
		if n == 1 {
			singles = append(singles, tag)
		} else {
			pairs = append(pairs, tag)
		}
	}

	if in.Query.Regex {
		return uniform(singles, pairs, need)
	}
	return pack(singles, pairs, need)
}

// followChars collects the characters that directly follow a match. A tag
// starting with one of them would read as a longer query.
func followChars(in AllocInput) map[string]struct{} {
	follow := make(map[string]struct{})
	if in.Query.Regex {
		return follow
	}
	n := in.Query.Len()
	for _, loc := range in.Matches {
		next := loc + n
		if next >= 0 && next < len(in.Text) {
			follow[string(unicode.ToLower(in.Text[next]))] = struct{}{}
		}
	}
	return follow
}

// pack chooses the largest number of singles that still leaves enough
// pairs for every vacancy. Pairs starting with a chosen single are dropped
// so that no tag is a prefix of another.
func pack(singles, pairs []string, need int) []string {
	free := func(k int) []string {
		used := make(map[string]struct{}, k)
		for _, s := range singles[:k] {
			used[s] = struct{}{}
		}
		var out []string
		for _, p := range pairs {
			if _, clash := used[firstChar(p)]; !clash {
				out = append(out, p)
			}
		}
		return out
	}

	bestK, bestTotal := len(singles), -1
	for k := len(singles); k >= 0; k-- {
		total := k + len(free(k))
		if need >= 0 && total >= need {
			bestK = k
			break
		}
		if total > bestTotal {
			bestK, bestTotal = k, total
		}
	}

	tags := append(append([]string(nil), singles[:bestK]...), free(bestK)...)
	if need >= 0 && len(tags) > need {
		tags = tags[:need]
	}
	return tags
}

// uniform keeps regex tags the same length so none can be a suffix of
// another: singles when they suffice, otherwise pairs.
func uniform(singles, pairs []string, need int) []string {
	tags := pairs
	if need >= 0 && need <= len(singles) || len(singles) >= len(pairs) {
		tags = singles
	}
	if need >= 0 && len(tags) > need {
		tags = tags[:need]
	}
	return append([]string(nil), tags...)
}

