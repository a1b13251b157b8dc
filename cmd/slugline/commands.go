package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tsawler/slugline"
	"github.com/tsawler/slugline/export"
	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/pages"
	"github.com/tsawler/slugline/store"
)

// snippetWidth is the display width of text in listings
const snippetWidth = 200

// newFlags returns a flag set for a subcommand that reports to stderr.
func (a *app) newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse parses args, allowing flags after the positional arguments, and
// returns the positionals.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// oneFile parses args and requires exactly one positional file argument.
func oneFile(fs *flag.FlagSet, args []string) (string, error) {
	pos, err := parse(fs, args)
	if err != nil {
		return "", err
	}
	if len(pos) != 1 {
		return "", fmt.Errorf("%w: %s requires exactly one file", errUsage, fs.Name())
	}
	return pos[0], nil
}

func (a *app) summary(args []string) error {
	fs := a.newFlags("summary")
	preview := fs.Int("preview", 300, "characters of first page text to show")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	defer ext.Close()

	sum, err := ext.Summary()
	if err != nil {
		return err
	}

	t := newTable(a.stdout)
	t.AppendRows([]table.Row{
		{"File", filepath.Base(file)},
		{"Pages", sum.Pages},
		{"Title", sum.Title},
		{"Author", sum.Author},
		{"Creator", sum.Creator},
		{"Producer", sum.Producer},
	})
	t.Render()

	if *preview > 0 {
		text, err := ext.FirstPageText(*preview)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, text)
	}
	return nil
}

func (a *app) lines(args []string) error {
	fs := a.newFlags("lines")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "maximum lines to show (0 for all)")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	result, warnings, err := ext.Pages(*page).Lines()
	if err != nil {
		return err
	}
	a.printWarnings(warnings)

	for _, pl := range result {
		for i, l := range pl.Lines {
			if *limit > 0 && i >= *limit {
				break
			}
			fmt.Fprintf(a.stdout, "%7.2f %7.2f  %s\n", l.OriginY, l.OriginX, l.Text)
		}
	}
	return nil
}

func (a *app) paragraphs(args []string) error {
	fs := a.newFlags("paragraphs")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 5, "maximum paragraphs to show (0 for all)")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	result, warnings, err := ext.Pages(*page).Paragraphs()
	if err != nil {
		return err
	}
	a.printWarnings(warnings)

	for _, pp := range result {
		for i, p := range pp.Paragraphs {
			if *limit > 0 && i >= *limit {
				break
			}
			fmt.Fprintf(a.stdout, "[%d] y=%.2f..%.2f x=%.2f..%.2f lines=%d\n    %s\n",
				i+1, p.StartY, p.EndY, p.LeftX, p.RightX, p.LineCount, p.Text)
		}
	}
	return nil
}

func (a *app) classify(args []string) error {
	fs := a.newFlags("classify")
	page := fs.Int("page", 1, "page number")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	records, warnings, err := ext.Pages(*page).Classify()
	if err != nil {
		return err
	}
	a.printWarnings(warnings)

	for _, r := range records {
		fmt.Fprintf(a.stdout, "%s %.2f  %s\n", labelCell(r.Label), r.Confidence, r.Text)
	}
	return nil
}

func (a *app) list(args []string) error {
	fs := a.newFlags("list")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	records, warnings, err := ext.Classify()
	if err != nil {
		return err
	}
	a.printWarnings(warnings)

	writeListing(a.stdout, records)
	fmt.Fprintf(a.stdout, "\nTotal paragraphs: %d\n", len(records))
	return nil
}

func (a *app) export(args []string) error {
	fs := a.newFlags("export")
	spec := fs.String("pages", "", "page selection, e.g. 3-5,8")
	page := fs.Int("page", 1, "page used when -pages selects nothing")
	format := fs.String("format", "", "json, html, fountain or pdf (default: from -out extension, else json)")
	out := fs.String("out", "", "output file (default: stdout)")
	title := fs.String("title", "", "document title for html, fountain and pdf")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	f := strings.ToLower(*format)
	if f == "" {
		f = formatFromExt(*out)
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	count, err := ext.PageCount()
	if err != nil {
		_ = ext.Close()
		return err
	}
	if pages.ParseRange(*spec, count).Len() > 0 {
		ext = ext.PageSpec(*spec)
	} else {
		ext = ext.Pages(*page)
	}

	sum, err := ext.Summary()
	if err != nil {
		_ = ext.Close()
		return err
	}
	records, warnings, err := ext.Classify()
	if err != nil {
		return err
	}
	a.printWarnings(warnings)

	name := *title
	if name == "" {
		name = sum.Title
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	var buf bytes.Buffer
	switch f {
	case "json":
		err = export.WriteJSON(&buf, records)
	case "html":
		err = export.WriteHTML(&buf, name, records)
	case "fountain":
		err = export.WriteFountain(&buf, records, export.FountainOptions{Title: name, Author: sum.Author, PageBreaks: true})
	case "pdf":
		err = export.WritePDF(&buf, records, export.PDFOptions{
			Title: name, Author: sum.Author, Bands: a.cfg.Bands(), PageBreaks: true, PageNumbers: true,
		})
	default:
		return fmt.Errorf("%w: unknown export format %q", errUsage, f)
	}
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = a.stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	a.logger.Info().Str("file", *out).Str("format", f).Int("records", len(records)).Msg("exported")
	return nil
}

// formatFromExt picks the export format from an output file name.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "html"
	case ".fountain", ".spmd":
		return "fountain"
	case ".pdf":
		return "pdf"
	default:
		return "json"
	}
}

func (a *app) validate(args []string) error {
	fs := a.newFlags("validate")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := export.Validate(data); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %s\n", file, okColor.Sprint("valid"))
	return nil
}

func (a *app) index(ctx context.Context, args []string) error {
	fs := a.newFlags("index")
	name := fs.String("name", "", "document name (default: file name without extension)")
	db := fs.String("db", "", "SQLite database path (overrides the config)")
	file, err := oneFile(fs, args)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	ext, err := a.open(file)
	if err != nil {
		return err
	}
	sum, err := ext.Summary()
	if err != nil {
		_ = ext.Close()
		return err
	}
	records, warnings, err := ext.Classify()
	if err != nil {
		return err
	}
	a.printWarnings(warnings)

	s, err := a.openStore(ctx, *db)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.Save(ctx, *name, sum, records); err != nil {
		return err
	}
	a.logger.Info().Str("document", *name).Int("records", len(records)).Msg("indexed")
	fmt.Fprintf(a.stdout, "Indexed %s: %d records from %d pages\n", *name, len(records), sum.Pages)
	return nil
}

func (a *app) query(ctx context.Context, args []string) error {
	fs := a.newFlags("query")
	doc := fs.String("doc", "", "document name")
	labels := fs.String("label", "", "comma-separated labels, e.g. Character,Transition")
	from := fs.Int("from", 0, "first page")
	to := fs.Int("to", 0, "last page")
	text := fs.String("text", "", "case-insensitive text substring")
	minConf := fs.Float64("min", 0, "minimum confidence")
	limit := fs.Int("limit", 0, "maximum results")
	db := fs.String("db", "", "SQLite database path (overrides the config)")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: query takes no arguments, got %q", errUsage, pos)
	}

	q := store.Query{Document: *doc, FromPage: *from, ToPage: *to, Text: *text, MinConfidence: *minConf, Limit: *limit}
	if *labels != "" {
		for _, name := range strings.Split(*labels, ",") {
			l, err := model.ParseLabel(strings.TrimSpace(name))
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			q.Labels = append(q.Labels, l)
		}
	}

	s, err := a.openStore(ctx, *db)
	if err != nil {
		return err
	}
	defer s.Close()

	hits, err := s.Query(ctx, q)
	if err != nil {
		return err
	}
	writeHits(a.stdout, hits)
	fmt.Fprintf(a.stdout, "\n%d results\n", len(hits))
	return nil
}

func (a *app) docs(ctx context.Context, args []string) error {
	fs := a.newFlags("docs")
	db := fs.String("db", "", "SQLite database path (overrides the config)")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	s, err := a.openStore(ctx, *db)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.Documents(ctx)
	if err != nil {
		return err
	}

	t := newTable(a.stdout)
	t.AppendHeader(table.Row{"Name", "Title", "Pages", "Records", "Indexed"})
	for _, d := range docs {
		t.AppendRow(table.Row{d.Name, d.Title, d.Pages, d.Records, d.IndexedAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := a.newFlags("stats")
	doc := fs.String("doc", "", "stored document name instead of a file")
	db := fs.String("db", "", "SQLite database path (overrides the config)")
	top := fs.Int("top", 10, "characters to list")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}

	var records []model.Record
	var counts map[model.Label]int
	switch {
	case *doc != "" && len(pos) == 0:
		s, err := a.openStore(ctx, *db)
		if err != nil {
			return err
		}
		defer s.Close()
		if counts, err = s.CountByLabel(ctx, *doc); err != nil {
			return err
		}
		if records, err = s.Records(ctx, *doc); err != nil {
			return err
		}
	case *doc == "" && len(pos) == 1:
		ext, err := a.open(pos[0])
		if err != nil {
			return err
		}
		var warnings []slugline.Warning
		if records, warnings, err = ext.Classify(); err != nil {
			return err
		}
		a.printWarnings(warnings)
		counts = model.CountByLabel(records)
	default:
		return fmt.Errorf("%w: stats takes one file or -doc", errUsage)
	}

	writeLabelStats(a.stdout, counts, len(records))
	fmt.Fprintln(a.stdout)
	writeCharacterStats(a.stdout, slugline.CountCharacters(records), *top)
	fmt.Fprintf(a.stdout, "\nScenes: %d\n", len(slugline.GroupScenes(records)))
	return nil
}
