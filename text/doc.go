// Package text defines the positioned text runs that page backends produce
// and the cleaning helpers shared by the later pipeline stages.
//
// # Runs and Pages
//
// A [Run] is a contiguous piece of text drawn by a backend, with its bounding
// box in page coordinates (origin top-left, Y growing downward), font size and
// font name, and an optional baseline [Vector]:
//
//	page := text.Page{Number: 1, Width: 612, Height: 792, Runs: runs}
//
// Any backend that can produce a [Page] can feed the pipeline.
//
// # Direction
//
// Runs carry the direction of their baseline when the backend knows it.
// [Vector.IsHorizontal] reports whether a direction lies within a tolerance
// of 0 or 180 degrees; rotated watermarks and margin notes fail the test and
// are dropped by the line extractor.
//
// # Cleaning
//
//   - CleanLine - NFC, invisible characters, whitespace, trailing asterisks
//   - NormalizeHyphens - rejoin words split across lines
//   - StripInvisibles - remove whitespace and zero-width characters entirely
package text
