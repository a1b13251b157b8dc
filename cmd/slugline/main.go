// Command slugline classifies the paragraphs of screenplay PDFs and exports,
// indexes or queries the results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tsawler/slugline"
	"github.com/tsawler/slugline/config"
	"github.com/tsawler/slugline/internal/logging"
	"github.com/tsawler/slugline/store"
)

// errUsage marks command line mistakes; they exit with status 2
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "slugline: screenplay PDF classifier")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  slugline summary <file>                            Page count, metadata and first page preview")
	fmt.Fprintln(w, "  slugline lines <file> [-page N] [-limit 10]         Show the lines of a page")
	fmt.Fprintln(w, "  slugline paragraphs <file> [-page N] [-limit 5]     Show the paragraphs of a page")
	fmt.Fprintln(w, "  slugline classify <file> [-page N]                  Classify the paragraphs of a page")
	fmt.Fprintln(w, "  slugline list <file>                               Classify and list every paragraph")
	fmt.Fprintln(w, "  slugline export <file> [-pages 3-5] [-format json|html|fountain|pdf] [-out path]")
	fmt.Fprintln(w, "  slugline validate <file.json>                      Check an export against the record schema")
	fmt.Fprintln(w, "  slugline index <file> [-name N]                    Store the records of a document")
	fmt.Fprintln(w, "  slugline query [-doc N] [-label L] [-text T] ...    Search stored records")
	fmt.Fprintln(w, "  slugline docs                                      List stored documents")
	fmt.Fprintln(w, "  slugline stats <file> | -doc N                     Per-label and per-character counts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags (before the command):")
	fmt.Fprintln(w, "  -config path   configuration file (default: user config dir)")
	fmt.Fprintln(w, "  -workers N     pages processed concurrently")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// run executes the command line and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("slugline", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { usage(stderr) }
	configPath := global.String("config", "", "configuration file")
	workers := global.Int("workers", 0, "pages processed concurrently (0 uses the config)")
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	logger := logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Out:    stderr,
	})
	defer logging.Close()

	a := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	cmd, cmdArgs := rest[0], rest[1:]
	cli := logging.WithComponent("cli")
	cli.Debug().Str("command", cmd).Int("args", len(cmdArgs)).Msg("start")

	ctx := context.Background()
	switch cmd {
	case "summary":
		err = a.summary(cmdArgs)
	case "lines":
		err = a.lines(cmdArgs)
	case "paragraphs":
		err = a.paragraphs(cmdArgs)
	case "classify":
		err = a.classify(cmdArgs)
	case "list":
		err = a.list(cmdArgs)
	case "export":
		err = a.export(cmdArgs)
	case "validate":
		err = a.validate(cmdArgs)
	case "index":
		err = a.index(ctx, cmdArgs)
	case "query":
		err = a.query(ctx, cmdArgs)
	case "docs":
		err = a.docs(ctx, cmdArgs)
	case "stats":
		err = a.stats(ctx, cmdArgs)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	default:
		cli.Error().Err(err).Str("command", cmd).Msg("command failed")
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

// open builds an extractor for filename configured from the app config.
func (a *app) open(filename string) (*slugline.Extractor, error) {
	labels, err := a.cfg.Labels()
	if err != nil {
		return nil, err
	}
	return slugline.Open(filename).
		WithLineConfig(a.cfg.LineConfig()).
		WithSegmentConfig(a.cfg.SegmentConfig()).
		WithBands(a.cfg.Bands()).
		WithLabels(labels).
		OCRLanguage(a.cfg.OCR.Language).
		Workers(a.cfg.Workers).
		WithLogger(logging.WithComponent("extract")), nil
}

// openStore opens the configured record store.
func (a *app) openStore(ctx context.Context, dbPath string) (*store.Store, error) {
	var s *store.Store
	var err error
	switch a.cfg.Store.Driver {
	case "postgres":
		dsn, dsnErr := a.cfg.PostgresDSN()
		if dsnErr != nil {
			return nil, dsnErr
		}
		s, err = store.OpenPostgres(ctx, dsn)
	default:
		path := a.cfg.Store.SQLitePath
		if dbPath != "" {
			path = dbPath
		}
		s, err = store.OpenSQLite(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	return s.WithLogger(logging.WithComponent("store")), nil
}

// printWarnings reports non-fatal issues on stderr.
func (a *app) printWarnings(warnings []slugline.Warning) {
	for _, w := range warnings {
		fmt.Fprintln(a.stderr, warnColor.Sprint("warning: "+w.String()))
	}
}
