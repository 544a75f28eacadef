// Package search finds the offsets the tagger labels. It is the reference
// engine used by the CLI and the IPC server; editors may supply their own.
package search

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/juju/errors"
)

// Find returns the ascending rune offsets where query occurs in text.
// Literal queries ignore case, except that an uppercase first character
// must match exactly. Regex queries are compiled verbatim.
func Find(text []rune, query string, regex bool) ([]int, error) {
	if query == "" {
		return nil, nil
	}
	if regex {
		return findRegex(text, query)
	}
	return findLiteral(text, []rune(query)), nil
}

func findLiteral(text, query []rune) []int {
	var out []int
	strictFirst := unicode.IsUpper(query[0])
	for i := 0; i+len(query) <= len(text); i++ {
		if matchAt(text, i, query, strictFirst) {
			out = append(out, i)
		}
	}
	return out
}

func matchAt(text []rune, at int, query []rune, strictFirst bool) bool {
	for j, r := range query {
		c := text[at+j]
		if j == 0 && strictFirst {
			if c != r {
				return false
			}
			continue
		}
		if unicode.ToLower(c) != unicode.ToLower(r) {
			return false
		}
	}
	return true
}

func findRegex(text []rune, pattern string) ([]int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Annotatef(err, "search: invalid pattern %q", pattern)
	}
	s := string(text)
	var out []int
	runeAt, byteAt := 0, 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[0] == loc[1] {
			continue
		}
		runeAt += utf8.RuneCountInString(s[byteAt:loc[0]])
		byteAt = loc[0]
		out = append(out, runeAt)
	}
	return out, nil
}

// InRange keeps the offsets inside [start, end).
func InRange(matches []int, start, end int) []int {
	var out []int
	for _, m := range matches {
		if m >= start && m < end {
			out = append(out, m)
		}
	}
	return out
}
