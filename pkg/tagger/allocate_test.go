package tagger

import (
	"testing"

	"github.com/bastiangx/tagjump/pkg/alphabet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateOnScreenFirst(t *testing.T) {
	text := []rune("ex ex ex ex ex")
	alloc := Allocate(AllocInput{
		Text:     text,
		Matches:  []int{0, 3, 6, 9, 12},
		Query:    NewQuery("e", false),
		View:     Range{Start: 6, End: 15},
		Prior:    EmptyAssignment(),
		Alphabet: listAlphabet{"a", "b"},
	})

	assert.False(t, alloc.Full)
	assert.Equal(t, map[string]int{"a": 6, "b": 9}, tagMap(alloc.Assignment))
}

func TestAllocate(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		query       string
		prior       map[string]int
		alphabet    Alphabet
		expected    map[string]int
		full        bool
	}{
		{
			description: "follow characters are never handed out",
			text:        "ea eb",
			query:       "e",
			alphabet:    listAlphabet{"a", "b", "c", "d"},
			expected:    map[string]int{"c": 0, "d": 3},
			full:        true,
		},
		{
			description: "prior tags on surviving matches are kept",
			text:        "ex ex ex",
			query:       "ex",
			prior:       map[string]int{"b": 3},
			alphabet:    listAlphabet{"a", "b", "c"},
			expected:    map[string]int{"a": 0, "b": 3, "c": 6},
			full:        true,
		},
		{
			description: "prior tags on vanished matches are dropped",
			text:        "ex ey ex",
			query:       "ex",
			prior:       map[string]int{"a": 0, "b": 3, "c": 6},
			alphabet:    listAlphabet{"a", "b", "c"},
			expected:    map[string]int{"a": 0, "c": 6},
			full:        true,
		},
		{
			description: "pairs fill in once singles run out",
			text:        "e. e. e. e.",
			query:       "e",
			alphabet:    listAlphabet{"a", "b", "aa", "ab", "ba", "bb", "cd", "dc"},
			expected:    map[string]int{"a": 0, "b": 3, "cd": 6, "dc": 9},
			full:        true,
		},
		{
			description: "singles are given up when pairs are needed",
			text:        "e. e. e. e. e.",
			query:       "e",
			alphabet:    listAlphabet{"a", "b", "aa", "ab", "ba", "bb"},
			expected:    map[string]int{"aa": 0, "ab": 3, "ba": 6, "bb": 9},
			full:        false,
		},
		{
			description: "tags sharing a query character are skipped",
			text:        "Xz. Xz.",
			query:       "Xz",
			alphabet:    listAlphabet{"x", "z", "a", "b"},
			expected:    map[string]int{"a": 0, "b": 4},
			full:        true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			text := []rune(tc.text)
			prior := EmptyAssignment()
			if tc.prior != nil {
				prior = build(tc.prior)
			}
			alloc := Allocate(AllocInput{
				Text:     text,
				Matches:  find(tc.text, tc.query),
				Query:    NewQuery(tc.query, false),
				View:     Range{Start: 0, End: len(text)},
				Prior:    prior,
				Alphabet: tc.alphabet,
			})
			assert.Equal(t, tc.expected, tagMap(alloc.Assignment))
			assert.Equal(t, tc.full, alloc.Full)
		})
	}
}

func TestAllocateShortCircuit(t *testing.T) {
	text := []rune("ex ex ex")
	prior := build(map[string]int{"a": 0, "b": 3})

	// the query already ends with a visible tag, so nothing new is handed out
	alloc := Allocate(AllocInput{
		Text:     text,
		Matches:  nil,
		Query:    NewQuery("ea", false),
		View:     Range{Start: 0, End: len(text)},
		Prior:    prior,
		Alphabet: alphabet.NewKeyboard(alphabet.DefaultKeys),
	})
	assert.Equal(t, map[string]int{"a": 0}, tagMap(alloc.Assignment))
	assert.True(t, alloc.Full)
}

func TestAllocateDoesNotModifyPrior(t *testing.T) {
	text := []rune("ex ex ex")
	prior := build(map[string]int{"a": 0})
	Allocate(AllocInput{
		Text:     text,
		Matches:  []int{0, 3, 6},
		Query:    NewQuery("e", false),
		View:     Range{Start: 0, End: len(text)},
		Prior:    prior,
		Alphabet: alphabet.NewKeyboard(alphabet.DefaultKeys),
	})
	assert.Equal(t, map[string]int{"a": 0}, tagMap(prior))
}

func TestAllocateKeepsPartlyTypedPairs(t *testing.T) {
	text := []rune("ex ex ex")
	alloc := Allocate(AllocInput{
		Text:     text,
		Matches:  nil,
		Query:    NewQuery("ec", false),
		View:     Range{Start: 0, End: len(text)},
		Prior:    build(map[string]int{"a": 0, "b": 3, "cd": 6}),
		Alphabet: listAlphabet{"a", "b", "cd"},
	})

	assert.True(t, alloc.Full)
	assert.Equal(t, map[string]int{"cd": 6}, tagMap(alloc.Assignment))
}

func TestAllocateAvoidsSuffixesOfHeldTags(t *testing.T) {
	text := []rune("x. x.")
	alloc := Allocate(AllocInput{
		Text:     text,
		Matches:  []int{0, 3},
		Query:    NewQuery("x", true),
		View:     Range{Start: 2, End: 5},
		Prior:    build(map[string]int{"ca": 0}),
		Alphabet: listAlphabet{"a", "b", "ca", "cb"},
	})

	// "a" ends "ca", so " xca" would complete both
	assert.True(t, alloc.Full)
	assert.Equal(t, map[string]int{"ca": 0, "b": 3}, tagMap(alloc.Assignment))
}

func TestCapacity(t *testing.T) {
	in := AllocInput{
		Text:     []rune("ex ex"),
		Matches:  []int{0, 3},
		Query:    NewQuery("e", false),
		Prior:    EmptyAssignment(),
		Alphabet: listAlphabet{"a", "x", "ab", "cd"},
	}
	// "x" follows a match and "ab" would extend "a"
	require.Equal(t, 2, Capacity(in))
}

func TestPack(t *testing.T) {
	singles := []string{"a", "b"}
	pairs := []string{"aa", "ab", "ca", "cb"}

	assert.Equal(t, []string{"a"}, pack(singles, pairs, 1))
	assert.Equal(t, []string{"a", "b", "ca", "cb"}, pack(singles, pairs, 4))
	assert.Equal(t, []string{"a", "b", "ca", "cb"}, pack(singles, pairs, -1))
	assert.Equal(t, []string{"a", "b", "ca", "cb"}, pack(singles, pairs, 9))
}

func TestUniform(t *testing.T) {
	singles := []string{"a", "b"}
	pairs := []string{"cc", "cd", "dc"}

	assert.Equal(t, []string{"a", "b"}, uniform(singles, pairs, 2))
	assert.Equal(t, []string{"cc", "cd", "dc"}, uniform(singles, pairs, 3))
	assert.Equal(t, []string{"cc", "cd", "dc"}, uniform(singles, pairs, -1))
}
