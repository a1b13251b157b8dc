// Package classify assigns a screenplay element label to each paragraph of a
// page using geometric and lexical rules only.
//
// Classification runs in two stages. The cascade walks an ordered rule
// table and stops at the first rule that matches; the correction pass then
// scans the cascade output once and demotes Character paragraphs that are
// not followed by a Parenthetical or Dialogue.
//
//	c := classify.NewClassifier()
//	results := c.Classify(paragraphs)
//
// Horizontal positions are compared against the standard screenplay indents
// held in [Bands]. The label index ([LabelIndex]) maps labels to the numeric
// ids used by exports; it can be loaded from a labels.json file.
package classify
