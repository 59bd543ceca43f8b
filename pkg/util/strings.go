package util

import "unicode/utf8"

// HasPrefix reports whether s begins with prefix.
func HasPrefix(s, prefix string) bool {
	lp := len(prefix)
	if lp == 0 {
		return true
	}
	if len(s) < lp {
		return false
	}
	return s[:lp] == prefix
}

// Truncate cuts s to at most max runes; Discord counts limits in characters.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
