package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const softHyphen = '\u00ad'

// space matches any Unicode white space; Go's \s alone is ASCII only
const space = `[\s\v\p{Z}\x{0085}]`

var (
	trailingAsterisks = regexp.MustCompile(`\*+$`)
	whitespaceRun     = regexp.MustCompile(space + `+`)

	// word char, then hyphen+spaces or soft hyphen+optional spaces, then a
	// lowercase (accented included) letter or digit
	brokenWord = regexp.MustCompile(`([\p{L}\p{N}_])(?:-` + space + `+|\x{00AD}` + space + `*)([a-záéíóúñçãõâêôàüïöëä0-9])`)
)

// spaceLike maps the non-breaking and zero-width characters that show up in
// PDF text to their replacement: a space, or nothing.
var spaceLike = strings.NewReplacer(
	"\u00a0", " ",
	"\u202f", " ",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
	"\u00ad", "",
)

// CleanLine normalizes a raw line of text: NFC composition, non-breaking
// spaces to ASCII spaces, zero-width characters and soft hyphens removed,
// trailing asterisks removed, whitespace runs collapsed and the result
// trimmed.
func CleanLine(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = spaceLike.Replace(s)
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	s = trailingAsterisks.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeHyphens repairs words broken across lines. Soft hyphens are
// removed, and "<word char>- <lowercase or digit>" is joined without
// separator. An uppercase follower never joins, so "ABC- Corp" is kept.
// Applying it twice gives the same result as applying it once.
func NormalizeHyphens(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, string(softHyphen), "")
	for {
		next := brokenWord.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	return s
}

// StripInvisibles removes every whitespace and zero-width character
func StripInvisibles(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.In(r, unicode.Zs) {
			return -1
		}
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}
