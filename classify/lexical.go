package classify

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsawler/slugline/text"
)

// maxNameLength is the longest character name accepted, in characters
const maxNameLength = 50

var upper = cases.Upper(language.Und)

// alphaCore strips digits, spaces and common punctuation, leaving the part
// of s that decides capitalization
func alphaCore(s string) string {
	return strings.TrimSpace(alphaNoise.ReplaceAllString(s, ""))
}

// isAllCaps reports whether the alphabetic core of s is non-empty and equal
// to its Unicode upper-case form. Accented capitals (JOÃO, SALOMÉ) count.
func isAllCaps(s string) bool {
	core := alphaCore(s)
	if core == "" {
		return false
	}
	return core == upper.String(core)
}

// characterName returns the part of a cue before the first "(" and then
// before the first ":" ("MAGO (CONT'D)" -> "MAGO", "ANGIE:" -> "ANGIE")
func characterName(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// isCharacterName reports whether s reads as a character cue
func isCharacterName(s string) bool {
	name := characterName(s)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return false
	}
	return isAllCaps(name)
}

// isNumber reports whether s, with whitespace and invisible characters
// removed, is an integer, a decimal or an integer followed by one letter
func isNumber(s string) bool {
	n := text.StripInvisibles(s)
	return integerNumber.MatchString(n) || decimalNumber.MatchString(n) || letteredNumber.MatchString(n)
}
