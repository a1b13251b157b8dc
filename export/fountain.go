package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/slugline/model"
)

var (
	// fountainScene is what a Fountain parser recognizes as a scene heading
	fountainScene = regexp.MustCompile(`(?i)^(?:INT|EXT|EST|INT\.?/EXT|I/E)[. ]`)

	// sceneNumber splits a leading scene number off a heading
	sceneNumber = regexp.MustCompile(`^\s*(\d+[A-Z]?)\.?\s+(.*?)(?:\s+\d+[A-Z]?\.?)?\s*$`)
)

// FountainOptions controls Fountain output.
type FountainOptions struct {
	// Title, when set, is written as a title page key
	Title  string
	Author string

	// PageBreaks writes "===" where the source page changes
	PageBreaks bool

	// KeepNumbers writes page-number paragraphs as notes instead of
	// dropping them
	KeepNumbers bool
}

// WriteFountain writes records as a Fountain screenplay. Elements that a
// Fountain parser would misread are forced with the markup prefixes.
func WriteFountain(w io.Writer, records []model.Record, opts FountainOptions) error {
	bw := bufio.NewWriter(w)
	fw := &fountainWriter{w: bw}

	if opts.Title != "" {
		fw.line("Title: " + opts.Title)
		if opts.Author != "" {
			fw.line("Author: " + opts.Author)
		}
	}

	page := 0
	for _, r := range records {
		if opts.PageBreaks && page != 0 && r.Page != page {
			fw.block("===")
			fw.inDialogue = false
		}
		page = r.Page
		fw.element(r, opts)
	}

	if fw.err != nil {
		return fw.err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write fountain: %w", err)
	}
	return nil
}

type fountainWriter struct {
	w   *bufio.Writer
	err error

	started    bool // something has been written
	blank      bool // last written line was blank
	inDialogue bool // a character cue opened a dialogue block
}

func (f *fountainWriter) line(s string) {
	if f.err != nil {
		return
	}
	_, f.err = f.w.WriteString(s + "\n")
	f.blank = s == ""
	f.started = true
}

// block writes s as a new block, separated by one blank line
func (f *fountainWriter) block(s string) {
	if f.started && !f.blank {
		f.line("")
	}
	f.line(s)
}

func (f *fountainWriter) element(r model.Record, opts FountainOptions) {
	t := strings.TrimSpace(r.Text)

	switch r.Label {
	case model.SceneHeading:
		f.block(sceneHeading(t))
		f.inDialogue = false

	case model.Character:
		cue := strings.TrimSuffix(t, ":")
		if !isUpper(cue) {
			cue = "@" + cue
		}
		f.block(cue)
		f.inDialogue = true

	case model.Parenthetical, model.Dialogue:
		if f.inDialogue {
			f.line(t)
			return
		}
		f.block(t)

	case model.Transition:
		if isUpper(t) && strings.HasSuffix(t, "TO:") {
			f.block(t)
		} else {
			f.block("> " + t)
		}
		f.inDialogue = false

	case model.EndOfAct:
		f.block("> " + t + " <")
		f.inDialogue = false

	case model.Number:
		if opts.KeepNumbers {
			f.block("[[" + t + "]]")
		}

	default:
		f.block(action(t))
		f.inDialogue = false
	}
}

// sceneHeading returns a heading Fountain will recognize, moving a
// leading scene number into #n# form
func sceneHeading(t string) string {
	num := ""
	if m := sceneNumber.FindStringSubmatch(t); m != nil {
		num, t = m[1], m[2]
	}
	if !fountainScene.MatchString(t) {
		t = "." + t
	}
	if num != "" {
		t += " #" + num + "#"
	}
	return t
}

// action escapes action text that would read as another element
func action(t string) string {
	switch {
	case fountainScene.MatchString(t):
		return "!" + t
	case isUpper(t) && strings.HasSuffix(t, "TO:"):
		return "!" + t
	case isUpper(t) && !strings.ContainsAny(t, ".!?"):
		// A lone all-caps line followed by text would read as a cue
		return "!" + t
	}
	return t
}

// isUpper reports whether s has letters and none of them are lowercase
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
