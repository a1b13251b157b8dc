package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/slugline/model"
)

// WriteJSON writes records as an indented JSON array. Non-ASCII text is
// written as UTF-8, not escaped.
func WriteJSON(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// MarshalJSON returns the bytes WriteJSON would write.
func MarshalJSON(records []model.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSONFile writes records to path after validating them against the
// record schema.
func WriteJSONFile(path string, records []model.Record) error {
	data, err := MarshalJSON(records)
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON decodes a record list written by WriteJSON.
func ReadJSON(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}
