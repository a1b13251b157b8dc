package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"github.com/tsawler/slugline"
	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/store"
)

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen, color.Bold)

	labelColors = map[model.Label]*color.Color{
		model.SceneHeading:  color.New(color.FgCyan, color.Bold),
		model.Character:     color.New(color.FgMagenta),
		model.Parenthetical: color.New(color.FgBlue),
		model.Dialogue:      color.New(color.FgGreen),
		model.Action:        color.New(color.Reset),
		model.Shot:          color.New(color.FgCyan),
		model.Transition:    color.New(color.FgYellow),
		model.Number:        color.New(color.Faint),
		model.EndOfAct:      color.New(color.FgRed, color.Bold),
		model.Other:         color.New(color.Faint),
	}
)

// labelWidth fits the longest display name
var labelWidth = func() int {
	w := 0
	for _, l := range model.Labels() {
		w = max(w, runewidth.StringWidth(l.String()))
	}
	return w
}()

// labelCell pads and colours a label for column output.
func labelCell(l model.Label) string {
	s := runewidth.FillRight(l.String(), labelWidth)
	if c, ok := labelColors[l]; ok {
		return c.Sprint(s)
	}
	return s
}

// snippet flattens s to one line and truncates it to width display cells.
func snippet(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "…")
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// writeListing prints one line per record: page, x, label, confidence and
// a snippet of the text.
func writeListing(w io.Writer, records []model.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%4d %7.2f  %s %.2f  %s\n",
			r.Page, r.LeftX, labelCell(r.Label), r.Confidence, snippet(r.Text, snippetWidth))
	}
}

func writeHits(w io.Writer, hits []store.Hit) {
	docWidth := 0
	for _, h := range hits {
		docWidth = max(docWidth, runewidth.StringWidth(h.Document))
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s %4d  %s %.2f  %s\n",
			runewidth.FillRight(h.Document, docWidth), h.Page, labelCell(h.Label), h.Confidence, snippet(h.Text, snippetWidth))
	}
}

// writeLabelStats renders per-label counts in taxonomy order with their
// share of the total.
func writeLabelStats(w io.Writer, counts map[model.Label]int, total int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Label", "Count", "Share"})
	for _, l := range model.Labels() {
		n := counts[l]
		if n == 0 {
			continue
		}
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total) * 100
		}
		t.AppendRow(table.Row{l.String(), n, fmt.Sprintf("%.1f%%", share)})
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func writeCharacterStats(w io.Writer, chars []slugline.CharacterCount, top int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Character", "Cues"})
	for i, c := range chars {
		if top > 0 && i >= top {
			break
		}
		t.AppendRow(table.Row{c.Name, c.Cues})
	}
	t.Render()
}
