package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTaggable(t *testing.T) {
	testCases := []struct {
		text        string
		loc         int
		queryLen    int
		expected    bool
		description string
	}{
		{"aaa", 1, 1, false, "Middle of an identical run"},
		{"aaa", 1, 2, true, "Longer queries are always taggable"},
		{"aaa", 0, 1, true, "Document start"},
		{"aaa", 2, 1, true, "Document end"},
		{"a a", 1, 1, true, "Different kind than neighbors"},
		{"abc", 1, 1, true, "Same kind, different characters"},
		{"x   y", 2, 1, false, "Run of spaces"},
		{"a\n\n\nb", 2, 1, true, "Blank lines"},
		{"x...y", 2, 1, false, "Run of punctuation"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsTaggable([]rune(tc.text), tc.loc, tc.queryLen))
		})
	}
}

func TestRefineDiscardsRunMiddles(t *testing.T) {
	text := []rune("xxxx eee xx")
	ref := Refine(text, []int{5, 6, 7}, NewQuery("e", false), EmptyAssignment(), Range{Start: 0, End: len(text)}, nil)

	assert.Equal(t, []int{5, 7}, ref.Matches)
	assert.Equal(t, 1, ref.Discarded)
	assert.False(t, ref.Truncated)
}

func TestRefineFeasibleRegion(t *testing.T) {
	text := []rune("ex ex ex ex ex")
	matches := []int{0, 3, 6, 9, 12}

	whole := Range{Start: 0, End: len(text)}

	testCases := []struct {
		description string
		prior       map[string]int
		view        Range
		available   int
		expected    []int
		truncated   bool
	}{
		{"Enough tags", nil, whole, 5, matches, false},
		{"Two tags for five matches", nil, whole, 2, []int{0, 3}, true},
		{"Tagged matches cost nothing", map[string]int{"a": 3}, whole, 2, []int{0, 3, 6}, true},
		{"No tags left", nil, whole, 0, []int{}, true},
		{"Visible matches first", nil, Range{Start: 6, End: 15}, 2, []int{6, 9}, true},
		{"Visible first, then from the top", nil, Range{Start: 9, End: 15}, 3, []int{0, 9, 12}, true},
		{"Tagged off-screen match survives", map[string]int{"a": 0}, Range{Start: 6, End: 15}, 1, []int{0, 6}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			prior := EmptyAssignment()
			if tc.prior != nil {
				prior = build(tc.prior)
			}
			ref := Refine(text, matches, NewQuery("e", false), prior, tc.view, func([]int) int { return tc.available })
			assert.Equal(t, tc.expected, ref.Matches)
			assert.Equal(t, tc.truncated, ref.Truncated)
			assert.Equal(t, len(matches)-len(tc.expected), ref.Discarded)
		})
	}
}

func TestRefineLeavesRegexAlone(t *testing.T) {
	text := []rune("aaa")
	ref := Refine(text, []int{0, 1, 2}, NewQuery("a", true), EmptyAssignment(), Range{Start: 0, End: 3}, func([]int) int { return 0 })
	assert.Equal(t, []int{0, 1, 2}, ref.Matches)
	assert.Zero(t, ref.Discarded)
}
