package utils

import (
	"fmt"
	"unicode"
)

// CharKind groups characters by how they read next to each other.
type CharKind uint8

const (
	KindWord CharKind = iota
	KindPunct
	KindSpace
)

// KindOf classifies r as a word character (letter or digit), whitespace,
// or punctuation.
func KindOf(r rune) CharKind {
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return KindWord
	case unicode.IsSpace(r):
		return KindSpace
	default:
		return KindPunct
	}
}

// IsLineTerminator checks for \n and \r
func IsLineTerminator(r rune) bool {
	return r == '\n' || r == '\r'
}

// LineStarts returns the offset of the first character of every line.
func LineStarts(text []rune) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 1000 && n > -1000 {
		return fmt.Sprintf("%d", n)
	}
	str := fmt.Sprintf("%d", n)
	sign := ""
	if str[0] == '-' {
		sign, str = "-", str[1:]
	}
	result := ""
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(char)
	}
	return sign + result
}
