// Package model provides the shared value types produced by the screenplay
// pipeline.
//
// The types here are deliberately small and immutable: every stage of the
// pipeline (runs -> lines -> paragraphs -> classified paragraphs) produces
// new values instead of editing the ones it received.
//
// # Labels
//
// [Label] is the closed screenplay element taxonomy:
//
//   - [SceneHeading], [Character], [Parenthetical], [Dialogue], [Action]
//   - [Shot], [Transition], [Number], [EndOfAct], [Other]
//
// Labels print with their display names ("Scene Heading", "End of Act") and
// parse from either the display name or the identifier form.
//
// # Records
//
// [Record] is the caller-facing row for one classified paragraph. Its JSON
// field names are stable and shared by every exporter and store:
//
//	{"page": 3, "text": "INT. HOUSE - DAY", "left_x": 108, "label": "Scene Heading", "proba": 0.9, ...}
//
// # Geometry
//
// [BBox] uses page coordinates with the origin at the top-left
// corner and Y increasing downward.
package model
