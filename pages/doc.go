// Package pages parses page selections such as "3-5,10,12-".
//
//	set := pages.ParseRange("3-5,10,12-", 14)
//	set.Sorted() // [3 4 5 10 12 13 14]
//
// Tokens are comma separated and whitespace is ignored. "a-b" selects an
// inclusive range, "a-" runs to the last page, "-b" starts at page 1, and a
// bare number selects one page. Ranges are clipped to [1, max]; bare numbers
// outside it, malformed tokens and empty tokens are skipped. Parsing never
// fails.
//
// [Check] is the strict counterpart for explicit page lists, returning
// [ErrOutOfRange] for numbers outside the document.
package pages
