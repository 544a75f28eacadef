package tagger

import (
	"github.com/bastiangx/tagjump/internal/utils"
)

// Refinement is the outcome of narrowing a raw match set.
type Refinement struct {
	Matches []int

	// Discarded counts matches dropped as untaggable or outside the
	// feasible region
	Discarded int

	// Truncated is set when tags ran short and the feasible region cut the
	// match list
	Truncated bool
}

// Refine narrows matches to taggable sites. When more matches lack a tag
// than capacity reports available, only the feasible region is kept: every
// match already tagged in prior, plus as many untagged ones as can each
// receive a tag, picked on-screen first and then by ascending offset.
// Regex matches are returned unchanged.
func Refine(text []rune, matches []int, q Query, prior *Assignment, view Range, capacity func(taggable []int) int) Refinement {
	if q.Regex {
		return Refinement{Matches: append([]int(nil), matches...)}
	}

	length := q.Len()
	taggable := make([]int, 0, len(matches))
	for _, loc := range matches {
		if IsTaggable(text, loc, length) {
			taggable = append(taggable, loc)
		}
	}
	ref := Refinement{Matches: taggable, Discarded: len(matches) - len(taggable)}

	if prior == nil {
		prior = EmptyAssignment()
	}
	vacant := vacancies(taggable, prior, view)
	if len(vacant) == 0 || capacity == nil {
		return ref
	}
	available := capacity(taggable)
	if len(vacant) <= available {
		return ref
	}

	chosen := make(map[int]struct{}, available)
	for _, loc := range vacant[:available] {
		chosen[loc] = struct{}{}
	}
	feasible := make([]int, 0, len(taggable))
	for _, loc := range taggable {
		_, tagged := prior.TagAt(loc)
		if _, ok := chosen[loc]; ok || tagged {
			feasible = append(feasible, loc)
		}
	}
	ref.Matches = feasible
	ref.Discarded += len(taggable) - len(feasible)
	ref.Truncated = true
	return ref
}

// IsTaggable reports whether a tag at loc can be read without ambiguity
// for a query of the given length. The middle of a run of identical
// characters is the case that fails.
func IsTaggable(text []rune, loc, queryLen int) bool {
	if queryLen > 1 {
		return true
	}
	if loc <= 0 || loc >= len(text)-1 {
		return true
	}

	c, left, right := text[loc], text[loc-1], text[loc+1]
	kind := utils.KindOf(c)
	if kind != utils.KindOf(left) || kind != utils.KindOf(right) {
		return true
	}
	if c != left || c != right {
		return true
	}
	// c sits inside a run of identical characters; only blank lines are safe
	return utils.IsLineTerminator(right)
}
