package slugline

import (
	"sort"
	"strings"

	"github.com/tsawler/slugline/model"
)

// Scene is a scene heading together with the elements that follow it, up
// to the next heading. Elements before the first heading form a scene with
// a zero Heading.
type Scene struct {
	Heading  model.Record
	Elements []model.Record
}

// Page returns the page the scene starts on.
func (s Scene) Page() int {
	if s.Heading.Text != "" {
		return s.Heading.Page
	}
	if len(s.Elements) > 0 {
		return s.Elements[0].Page
	}
	return 0
}

// Characters returns the distinct character cues of the scene in order of
// first appearance.
func (s Scene) Characters() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range s.Elements {
		if r.Label != model.Character {
			continue
		}
		name := CueName(r.Text)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// GroupScenes splits records, in reading order, into scenes.
func GroupScenes(records []model.Record) []Scene {
	var scenes []Scene
	var cur *Scene

	for _, r := range records {
		if r.Label == model.SceneHeading {
			scenes = append(scenes, Scene{Heading: r})
			cur = &scenes[len(scenes)-1]
			continue
		}
		if cur == nil {
			scenes = append(scenes, Scene{})
			cur = &scenes[len(scenes)-1]
		}
		cur.Elements = append(cur.Elements, r)
	}

	return scenes
}

// CueName strips extensions such as (V.O.) or (CONT'D) from a character
// cue.
func CueName(cue string) string {
	name := cue
	if i := strings.IndexByte(name, '('); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ":"))
}

// CharacterCount is the number of cues of one character.
type CharacterCount struct {
	Name string
	Cues int
}

// CountCharacters tallies character cues, most frequent first, ties broken
// by name.
func CountCharacters(records []model.Record) []CharacterCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Label == model.Character {
			counts[CueName(r.Text)]++
		}
	}

	out := make([]CharacterCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CharacterCount{Name: name, Cues: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cues != out[j].Cues {
			return out[i].Cues > out[j].Cues
		}
		return out[i].Name < out[j].Name
	})
	return out
}
