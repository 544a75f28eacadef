// Package alphabet generates the tags offered to the tagger, ordered by how
// easy they are to type.
package alphabet

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultKeys is the home row first, then the upper and lower rows.
const DefaultKeys = "asdfghjklqwertyuiopzxcvbnm"

// Keyboard produces one- and two-character tags from a key list given in
// preference order. Every tag is lowercase.
type Keyboard struct {
	keys  []rune
	tags  []string
	ranks *patricia.Trie
}

// NewKeyboard builds the tag universe for keys. Duplicate and non-printable
// keys are dropped; an empty result falls back to DefaultKeys.
func NewKeyboard(keys string) *Keyboard {
	seen := make(map[rune]bool)
	var clean []rune
	for _, r := range strings.ToLower(keys) {
		if seen[r] || !unicode.IsPrint(r) || unicode.IsSpace(r) {
			continue
		}
		seen[r] = true
		clean = append(clean, r)
	}
	if len(clean) == 0 {
		log.Warnf("No usable tag keys in %q, using defaults", keys)
		return NewKeyboard(DefaultKeys)
	}

	kb := &Keyboard{
		keys:  clean,
		tags:  make([]string, 0, len(clean)*(len(clean)+1)),
		ranks: patricia.NewTrie(),
	}
	for _, r := range clean {
		kb.add(string(r))
	}
	for _, first := range clean {
		for _, second := range clean {
			kb.add(string([]rune{first, second}))
		}
	}
	log.Debugf("Tag alphabet ready: %d keys, %d tags", len(clean), len(kb.tags))
	return kb
}

func (kb *Keyboard) add(tag string) {
	kb.ranks.Insert(patricia.Prefix(tag), len(kb.tags))
	kb.tags = append(kb.tags, tag)
}

// Keys returns the key list in preference order.
func (kb *Keyboard) Keys() string {
	return string(kb.keys)
}

// Size is the number of tags before any filtering.
func (kb *Keyboard) Size() int {
	return len(kb.tags)
}

// FilterTags returns every tag that shares no character with query, in
// preference order.
func (kb *Keyboard) FilterTags(query string) []string {
	used := make(map[rune]bool)
	for _, r := range strings.ToLower(query) {
		used[r] = true
	}
	out := make([]string, 0, len(kb.tags))
	for _, tag := range kb.tags {
		if !collides(tag, used) {
			out = append(out, tag)
		}
	}
	return out
}

func collides(tag string, used map[rune]bool) bool {
	for _, r := range tag {
		if used[r] {
			return true
		}
	}
	return false
}

// Compare orders tags by preference rank. Unknown tags sort last, by text.
func (kb *Keyboard) Compare(a, b string) int {
	ra, okA := kb.rank(a)
	rb, okB := kb.rank(b)
	switch {
	case okA && okB:
		return ra - rb
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func (kb *Keyboard) rank(tag string) (int, bool) {
	item := kb.ranks.Get(patricia.Prefix(tag))
	if item == nil {
		return 0, false
	}
	return item.(int), true
}

// Contains reports whether tag belongs to this alphabet.
func (kb *Keyboard) Contains(tag string) bool {
	_, ok := kb.rank(tag)
	return ok
}
