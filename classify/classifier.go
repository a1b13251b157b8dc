package classify

import (
	"strings"

	"github.com/tsawler/slugline/layout"
	"github.com/tsawler/slugline/model"
)

// demotedConfidence is the confidence given to a Character cue that the
// correction pass turned into Other
const demotedConfidence = 0.88

// Result is a paragraph with its label
type Result struct {
	Paragraph layout.Paragraph

	Label      model.Label
	LabelID    int
	Confidence float64

	// X is the horizontal position the decision used (the paragraph's LeftX)
	X float64

	// Rule names the cascade rule that decided, or "correction"
	Rule string
}

// Record converts the result into a caller-facing record for page
func (r Result) Record(page int) model.Record {
	p := r.Paragraph
	return model.Record{
		Page:       page,
		Text:       p.Text,
		LeftX:      p.LeftX,
		RightX:     p.RightX,
		StartY:     p.StartY,
		EndY:       p.EndY,
		LineCount:  p.LineCount,
		Label:      r.Label,
		Confidence: r.Confidence,
	}
}

// Classifier labels the paragraphs of a page
type Classifier struct {
	bands  Bands
	labels *LabelIndex
}

// NewClassifier creates a classifier with default bands and the full
// taxonomy as label index
func NewClassifier() *Classifier {
	return &Classifier{
		bands:  DefaultBands(),
		labels: DefaultLabelIndex(),
	}
}

// NewClassifierWithConfig creates a classifier with custom bands. A nil
// label index means the default one.
func NewClassifierWithConfig(bands Bands, labels *LabelIndex) *Classifier {
	if labels == nil {
		labels = DefaultLabelIndex()
	}
	return &Classifier{
		bands:  bands,
		labels: labels,
	}
}

// Bands returns the classifier's bands
func (c *Classifier) Bands() Bands {
	return c.bands
}

// Labels returns the classifier's label index
func (c *Classifier) Labels() *LabelIndex {
	return c.labels
}

// Classify labels every paragraph of a page. The output has the same length
// and order as the input.
func (c *Classifier) Classify(paragraphs []layout.Paragraph) []Result {
	if len(paragraphs) == 0 {
		return nil
	}

	// Step 1: Rule cascade, one paragraph at a time
	results := c.cascade(paragraphs)

	// Step 2: Consistency pass over the whole page
	c.correct(results)

	return results
}

// cascade applies the rule table to each paragraph independently
func (c *Classifier) cascade(paragraphs []layout.Paragraph) []Result {
	results := make([]Result, len(paragraphs))
	for i, p := range paragraphs {
		cand := candidate{
			text: strings.TrimSpace(p.Text),
			x:    p.LeftX,
			mid:  p.CenterX(),
		}

		label, confidence, name := model.Other, fallbackConfidence, fallbackRule
		for _, r := range cascadeRules {
			if l, conf, ok := r.match(c.bands, cand); ok {
				label, confidence, name = l, conf, r.name
				break
			}
		}

		results[i] = Result{
			Paragraph:  p,
			Label:      label,
			LabelID:    c.labels.ID(label),
			Confidence: confidence,
			X:          cand.x,
			Rule:       name,
		}
	}
	return results
}

// correct demotes a Character that is not followed by a Parenthetical or
// Dialogue, including a Character that ends the page. Followers are judged
// by their cascade label.
func (c *Classifier) correct(results []Result) {
	for i := range results {
		if results[i].Label != model.Character {
			continue
		}
		if i+1 < len(results) {
			next := results[i+1].Label
			if next == model.Parenthetical || next == model.Dialogue {
				continue
			}
		}
		results[i].Label = model.Other
		results[i].LabelID = c.labels.ID(model.Other)
		results[i].Confidence = demotedConfidence
		results[i].Rule = "correction"
	}
}

// Records converts a page of results into records
func Records(page int, results []Result) []model.Record {
	records := make([]model.Record, len(results))
	for i, r := range results {
		records[i] = r.Record(page)
	}
	return records
}
