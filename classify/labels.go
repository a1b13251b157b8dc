package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tsawler/slugline/model"
)

// LabelsFile is the file LoadLabels looks for
const LabelsFile = "labels.json"

// LabelIndex maps labels to numeric ids in a fixed, ordered label list
type LabelIndex struct {
	names []string
	index map[string]int
}

// NewLabelIndex builds an index over names, in order. Later duplicates are
// ignored.
func NewLabelIndex(names []string) *LabelIndex {
	li := &LabelIndex{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	copy(li.names, names)
	for i, n := range names {
		if _, ok := li.index[n]; !ok {
			li.index[n] = i
		}
	}
	return li
}

// DefaultLabelIndex returns the index over the full taxonomy
func DefaultLabelIndex() *LabelIndex {
	labels := model.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return NewLabelIndex(names)
}

// LoadLabels reads the ordered label list from dir/labels.json. A missing
// file is not an error and yields the default index.
func LoadLabels(dir string) (*LabelIndex, error) {
	data, err := os.ReadFile(filepath.Join(dir, LabelsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultLabelIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", LabelsFile, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: empty label list", LabelsFile)
	}
	return NewLabelIndex(names), nil
}

// ID returns the id of label. Labels missing from the list resolve to the
// id of "Other", or 0 when that is missing too.
func (li *LabelIndex) ID(label model.Label) int {
	if id, ok := li.index[label.String()]; ok {
		return id
	}
	if id, ok := li.index[model.Other.String()]; ok {
		return id
	}
	return 0
}

// Name returns the label name stored at id, or "" when out of range
func (li *LabelIndex) Name(id int) string {
	if id < 0 || id >= len(li.names) {
		return ""
	}
	return li.names[id]
}

// Names returns a copy of the ordered label list
func (li *LabelIndex) Names() []string {
	out := make([]string, len(li.names))
	copy(out, li.names)
	return out
}

// Len returns the number of labels
func (li *LabelIndex) Len() int {
	return len(li.names)
}
