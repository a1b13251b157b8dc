package model

import (
	"fmt"
	"strings"
)

// Label is a screenplay element type. The set is closed: classification
// never produces a value outside the constants below.
type Label int

const (
	Other Label = iota
	SceneHeading
	Character
	Parenthetical
	Dialogue
	Action
	Shot
	Transition
	Number
	EndOfAct
)

// labelNames holds display names in taxonomy order.
var labelNames = [...]string{
	Other:         "Other",
	SceneHeading:  "Scene Heading",
	Character:     "Character",
	Parenthetical: "Parenthetical",
	Dialogue:      "Dialogue",
	Action:        "Action",
	Shot:          "Shot",
	Transition:    "Transition",
	Number:        "Number",
	EndOfAct:      "End of Act",
}

// Labels returns every label in taxonomy order, starting with SceneHeading
// and ending with Other.
func Labels() []Label {
	return []Label{
		SceneHeading, Character, Parenthetical, Dialogue, Action,
		Shot, Transition, Number, EndOfAct, Other,
	}
}

// String returns the display name ("Scene Heading", "End of Act", ...)
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return labelNames[Other]
	}
	return labelNames[l]
}

// Ident returns the identifier form without spaces ("SceneHeading").
func (l Label) Ident() string {
	return strings.ReplaceAll(l.String(), " ", "")
}

// Slug returns a lowercase hyphenated form ("scene-heading"), used for CSS
// classes and file names.
func (l Label) Slug() string {
	return strings.ToLower(strings.ReplaceAll(l.String(), " ", "-"))
}

// Valid reports whether l is one of the taxonomy constants
func (l Label) Valid() bool {
	return l >= 0 && int(l) < len(labelNames)
}

// ParseLabel resolves a display name, identifier or slug, ignoring case.
func ParseLabel(s string) (Label, error) {
	key := normalizeLabelKey(s)
	for i := range labelNames {
		if normalizeLabelKey(labelNames[i]) == key {
			return Label(i), nil
		}
	}
	return Other, fmt.Errorf("unknown label %q", s)
}

func normalizeLabelKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// MarshalText encodes the display name
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes any form accepted by ParseLabel
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
