package slugline

import (
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/slugline/classify"
	"github.com/tsawler/slugline/layout"
	"github.com/tsawler/slugline/text"
)

// stage is how far a page is carried through the pipeline.
type stage int

const (
	stageLines stage = iota
	stageParagraphs
	stageClassify
)

// pageResult holds everything computed for one page.
type pageResult struct {
	number     int
	lines      *layout.PageLines
	paragraphs []layout.Paragraph
	results    []classify.Result
	warnings   []Warning
}

// pipeline runs the per-page stages. Its stages keep no state between
// pages, so one pipeline serves all workers.
type pipeline struct {
	lines      *layout.LineExtractor
	segmenter  *layout.Segmenter
	classifier *classify.Classifier
	logger     zerolog.Logger
}

func newPipeline(opts ExtractOptions) *pipeline {
	return &pipeline{
		lines:      layout.NewLineExtractorWithConfig(opts.lines),
		segmenter:  layout.NewSegmenterWithConfig(opts.segment),
		classifier: classify.NewClassifierWithConfig(opts.bands, opts.labels),
		logger:     opts.logger,
	}
}

// process carries a page through the stages up to and including upTo.
func (p *pipeline) process(page text.Page, upTo stage) pageResult {
	res := pageResult{number: page.Number}

	res.lines = p.lines.Extract(page)
	if upTo >= stageParagraphs {
		res.paragraphs = p.segmenter.Segment(res.lines.Lines)
	}
	if upTo >= stageClassify {
		res.results = p.classifier.Classify(res.paragraphs)
	}

	p.logger.Debug().
		Int("page", page.Number).
		Int("runs", len(page.Runs)).
		Int("lines", res.lines.Len()).
		Int("paragraphs", len(res.paragraphs)).
		Msg("page processed")

	return res
}

// run fetches the numbered pages in order and processes them, using up to
// workers goroutines for the layout and classification stages. Pages are
// always fetched from the source one at a time. Results come back in the
// order of numbers.
func (e *Extractor) run(numbers []int, upTo stage) ([]pageResult, error) {
	pipe := newPipeline(e.options)
	out := make([]pageResult, len(numbers))

	if e.options.workers <= 1 {
		for i, n := range numbers {
			page, warnings, err := e.fetch(n)
			if err != nil {
				return nil, err
			}
			out[i] = pipe.process(page, upTo)
			out[i].warnings = append(warnings, out[i].warnings...)
		}
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(e.options.workers)

	var fetchErr error
	for i, n := range numbers {
		page, warnings, err := e.fetch(n)
		if err != nil {
			fetchErr = err
			break
		}
		i := i
		g.Go(func() error {
			res := pipe.process(page, upTo)
			res.warnings = append(warnings, res.warnings...)
			out[i] = res
			return nil
		})
	}

	// Wait even on a fetch error so no worker outlives the call
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return out, nil
}
