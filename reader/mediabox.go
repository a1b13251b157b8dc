package reader

import (
	"github.com/ledongthuc/pdf"

	"github.com/tsawler/slugline/model"
)

// letter is the US Letter page used when no MediaBox can be found
var letter = model.BBox{X0: 0, Y0: 0, X1: 612, Y1: 792}

// maxTreeDepth bounds the walk up the page tree
const maxTreeDepth = 32

// mediaBox returns the page's MediaBox in PDF coordinates, following the
// Parent chain when the page inherits it
func mediaBox(page pdf.Page) model.BBox {
	node := page.V
	for depth := 0; depth < maxTreeDepth && !node.IsNull(); depth++ {
		if box, ok := parseBox(node.Key("MediaBox")); ok {
			return box
		}
		node = node.Key("Parent")
	}
	return letter
}

// parseBox converts a [llx lly urx ury] array, fixing inverted corners
func parseBox(v pdf.Value) (model.BBox, bool) {
	if v.IsNull() || v.Kind() != pdf.Array || v.Len() != 4 {
		return model.BBox{}, false
	}

	var coords [4]float64
	for i := 0; i < 4; i++ {
		c := v.Index(i)
		switch c.Kind() {
		case pdf.Integer:
			coords[i] = float64(c.Int64())
		case pdf.Real:
			coords[i] = c.Float64()
		default:
			return model.BBox{}, false
		}
	}

	box := model.NewBBox(coords[0], coords[1], coords[2], coords[3])
	if box.IsEmpty() {
		return model.BBox{}, false
	}
	return box, true
}
