// Package layout rebuilds lines and paragraphs from the positioned runs of a
// page.
//
// Layout works in two stages, each pure and per page:
//
//	lines := layout.NewLineExtractor().Extract(page)
//	paragraphs := layout.NewSegmenter().Segment(lines.Lines)
//
// # Lines
//
// The [LineExtractor] drops rotated runs, groups the remaining runs by their
// top edge, cleans the text (see text.CleanLine), drops lines inside the top
// and bottom margins, then sorts by (round(OriginY,1), OriginX) and removes
// exact duplicates of (rounded Y, text).
//
// # Paragraphs
//
// The [Segmenter] folds lines left to right. A new paragraph starts when the
// vertical step between line tops exceeds YGapThreshold, when the left edge
// moves by more than IndentThreshold and the step exceeds half the gap, or
// when the previous line ends a sentence and the step exceeds 80% of the
// gap. Merged text is hyphen-repaired with text.NormalizeHyphens.
//
// Thresholds live in [LineConfig] and [SegmentConfig]; the defaults suit
// US Letter screenplays set in 12 point Courier.
package layout
