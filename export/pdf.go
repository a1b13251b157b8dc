package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/tsawler/slugline/classify"
	"github.com/tsawler/slugline/model"
)

// US Letter page geometry, in points
const (
	letterWidth  = 612.0
	letterHeight = 792.0
	topMargin    = 72.0
	bottomMargin = 72.0
	rightEdge    = 540.0
	lineHeight   = 12.0
	fontSize     = 12.0
)

// PDFOptions controls PDF export behavior.
// Units are points. Text is set in the built-in Courier at 12 points, so
// the output reads back through the classifier at the same bands.
type PDFOptions struct {
	Title  string
	Author string

	// Bands places the elements; the zero value means the defaults
	Bands classify.Bands

	// PageBreaks starts a new page where the source page changes
	PageBreaks bool

	// PageNumbers prints "n." in the top right corner from page 2 on
	PageNumbers bool
}

// placement is where and how an element is set
type placement struct {
	x, width float64
	align    string
}

func placementFor(label model.Label, b classify.Bands) placement {
	full := placement{x: b.Action, width: rightEdge - b.Action, align: "L"}
	switch label {
	case model.Character:
		return placement{x: b.Character, width: rightEdge - b.Character, align: "L"}
	case model.Parenthetical:
		return placement{x: b.Parenthetical, width: 160, align: "L"}
	case model.Dialogue:
		return placement{x: b.Dialogue, width: 252, align: "L"}
	case model.Transition:
		full.align = "R"
	case model.EndOfAct:
		full.align = "C"
	}
	return full
}

// continuesDialogue reports whether label sits directly under prev without
// a blank line
func continuesDialogue(prev, label model.Label) bool {
	switch label {
	case model.Parenthetical, model.Dialogue:
		return prev == model.Character || prev == model.Parenthetical || prev == model.Dialogue
	}
	return false
}

// WritePDF re-typesets records as a screenplay in standard margins.
// Page-number paragraphs are dropped; PageNumbers regenerates them.
func WritePDF(w io.Writer, records []model.Record, opts PDFOptions) error {
	bands := opts.Bands
	if bands == (classify.Bands{}) {
		bands = classify.DefaultBands()
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: letterWidth, Ht: letterHeight},
	})
	pdf.SetMargins(bands.Action, topMargin, letterWidth-rightEdge)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetCellMargin(0)
	pdf.SetCreator("slugline", false)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}

	// Core fonts are cp1252; translate UTF-8 text
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if opts.PageNumbers {
		pdf.SetHeaderFunc(func() {
			if n := pdf.PageNo(); n > 1 {
				pdf.SetXY(rightEdge-72, topMargin/2)
				pdf.CellFormat(72, lineHeight, fmt.Sprintf("%d.", n), "", 0, "R", false, 0, "")
			}
			pdf.SetXY(bands.Action, topMargin)
		})
	}

	pdf.SetFont("Courier", "", fontSize)
	pdf.AddPage()

	page := 0
	prev := model.Other
	atTop := true
	for _, r := range records {
		if r.Label == model.Number {
			continue
		}
		if opts.PageBreaks && page != 0 && r.Page != page {
			pdf.AddPage()
			atTop = true
		}
		page = r.Page

		text := strings.TrimSpace(r.Text)
		if r.Label == model.SceneHeading {
			text = strings.ToUpper(text)
		}

		if !atTop && !continuesDialogue(prev, r.Label) {
			pdf.Ln(lineHeight)
		}
		p := placementFor(r.Label, bands)
		pdf.SetX(p.x)
		pdf.MultiCell(p.width, lineHeight, tr(text), "", p.align, false)

		prev = r.Label
		atTop = false
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
