package model

// Record is one classified paragraph as handed to callers, exporters and
// stores. Field names follow the JSON export format.
type Record struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	LeftX      float64 `json:"left_x"`
	RightX     float64 `json:"right_x"`
	StartY     float64 `json:"start_y"`
	EndY       float64 `json:"end_y"`
	LineCount  int     `json:"lines_count"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"proba"`
}

// BBox returns the paragraph's extent on its page
func (r Record) BBox() BBox {
	return NewBBox(r.LeftX, r.StartY, r.RightX, r.EndY)
}

// Summary holds document-level information
type Summary struct {
	Pages    int    `json:"pages"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// CountByLabel tallies records per label
func CountByLabel(records []Record) map[Label]int {
	counts := make(map[Label]int)
	for _, r := range records {
		counts[r.Label]++
	}
	return counts
}
