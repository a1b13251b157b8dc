package slugline

import (
	"fmt"
	"strings"
)

// WarningCode identifies the kind of non-fatal issue met while processing.
type WarningCode int

const (
	// WarnNoText means the page has no text runs at all, which usually
	// means it is a scanned image.
	WarnNoText WarningCode = iota

	// WarnMalformedPage means the page content could not be decoded and
	// was treated as empty.
	WarnMalformedPage

	// WarnOCRUnavailable means the source needs OCR but the binary was
	// built without it.
	WarnOCRUnavailable
)

// String returns the warning code name.
func (c WarningCode) String() string {
	switch c {
	case WarnNoText:
		return "no-text"
	case WarnMalformedPage:
		return "malformed-page"
	case WarnOCRUnavailable:
		return "ocr-unavailable"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue tied to a page. Pages that raise warnings
// still appear in results, with empty content.
type Warning struct {
	Page    int
	Code    WarningCode
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single display string, one per line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}
