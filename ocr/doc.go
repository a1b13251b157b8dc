// Package ocr reads scanned screenplay pages through the Tesseract OCR
// engine, via gosseract.
//
// [ImageSource] turns a list of page images into text pages whose runs are
// the recognized words, scaled from pixels to points so the layout and
// classification stages see the same geometry as a native PDF:
//
//	src, err := ocr.NewImageSource([]string{"p1.png", "p2.png"})
//	page, err := src.Page(1)
//
// OCR support needs Tesseract and the "ocr" build tag:
//
//	go build -tags ocr
//
// On macOS, install Tesseract via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Without the tag every recognition call returns [ErrOCRNotEnabled].
package ocr
