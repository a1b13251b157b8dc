package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/slugline/model"
)

// candidate is the view of a paragraph the rules look at
type candidate struct {
	text string // trimmed paragraph text
	x    float64
	mid  float64 // horizontal midpoint
}

// rule is one step of the cascade. match returns the label and confidence
// when the rule applies.
type rule struct {
	name  string
	match func(b Bands, c candidate) (model.Label, float64, bool)
}

// cascadeRules is evaluated top to bottom; the first match wins. Order
// matters: a centered all-caps line at the Character band is a Character,
// not an End of Act.
var cascadeRules = []rule{
	{"transition", matchTransition},
	{"scene-heading", matchSceneHeading},
	{"character", matchCharacter},
	{"parenthetical", matchParenthetical},
	{"dialogue", matchDialogue},
	{"shot", matchShot},
	{"action", matchAction},
	{"end-of-act", matchEndOfAct},
	{"number", matchNumber},
}

const (
	fallbackRule       = "other"
	fallbackConfidence = 0.5
)

func matchTransition(b Bands, c candidate) (model.Label, float64, bool) {
	if c.x >= b.TransitionX {
		return model.Transition, 0.9, true
	}
	if transitionPhrase.MatchString(c.text) {
		return model.Transition, 0.8, true
	}
	return model.Other, 0, false
}

func matchSceneHeading(b Bands, c candidate) (model.Label, float64, bool) {
	if !sceneIntExt.MatchString(c.text) && !sceneDashTime.MatchString(c.text) && !omitted.MatchString(c.text) {
		return model.Other, 0, false
	}

	target := b.SceneUnnumbered
	if startsWithNumber.MatchString(c.text) {
		target = b.SceneNumbered
	}
	if b.near(c.x, target) {
		return model.SceneHeading, 0.9, true
	}
	// Still a heading, the indent is just off
	return model.SceneHeading, 0.75, true
}

func matchCharacter(b Bands, c candidate) (model.Label, float64, bool) {
	if b.near(c.x, b.Character) && isCharacterName(c.text) {
		return model.Character, 0.92, true
	}
	return model.Other, 0, false
}

func matchParenthetical(b Bands, c candidate) (model.Label, float64, bool) {
	if parenthesized.MatchString(c.text) && b.near(c.x, b.Parenthetical) {
		return model.Parenthetical, 0.9, true
	}
	return model.Other, 0, false
}

func matchDialogue(b Bands, c candidate) (model.Label, float64, bool) {
	if b.near(c.x, b.Dialogue) {
		return model.Dialogue, 0.8, true
	}
	return model.Other, 0, false
}

func matchShot(b Bands, c candidate) (model.Label, float64, bool) {
	if shotPrefix.MatchString(c.text) && b.near(c.x, b.Action) {
		return model.Shot, 0.8, true
	}
	return model.Other, 0, false
}

// matchAction covers everything at the action indent. Short mixed-case
// lines ending in a colon ("Later that night:") are treated as transitions.
func matchAction(b Bands, c candidate) (model.Label, float64, bool) {
	if !b.near(c.x, b.Action) {
		return model.Other, 0, false
	}
	if utf8.RuneCountInString(c.text) < 30 && !isAllCaps(c.text) && strings.HasSuffix(c.text, ":") {
		return model.Transition, 0.8, true
	}
	return model.Action, 0.7, true
}

func matchEndOfAct(b Bands, c candidate) (model.Label, float64, bool) {
	if b.centered(c.mid) && isAllCaps(c.text) {
		return model.EndOfAct, 0.88, true
	}
	return model.Other, 0, false
}

func matchNumber(b Bands, c candidate) (model.Label, float64, bool) {
	if isNumber(c.text) {
		return model.Number, 0.9, true
	}
	return model.Other, 0, false
}
