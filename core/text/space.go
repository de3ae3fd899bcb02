package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSpace reports whether r is whitespace. The information separators
// U+001C..U+001F count as whitespace too, as they do in the HubXML tools.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// IsBlank reports whether s is empty or made only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, IsSpace) == ""
}

// noSpaceBefore lists characters that glue to the preceding text.
const noSpaceBefore = ",.!?;:)]… "

// noSpaceAfter lists characters that glue to the following text.
const noSpaceAfter = "’'([ "

// LastRune returns the final rune of s, or "" when s is empty.
func LastRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return string(r)
}

// FirstRune returns the first rune of s, or "" when s is empty.
func FirstRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// ShouldInsertSpace decides whether a separating space belongs between a
// text ending in last and one starting with first.
func ShouldInsertSpace(last, first string) bool {
	if first != "" && strings.Contains(noSpaceBefore, first) {
		return false
	}
	if last != "" && strings.Contains(noSpaceAfter, last) {
		return false
	}
	return last != "’" && first != "’"
}
