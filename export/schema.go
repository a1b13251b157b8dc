package export

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tsawler/slugline/model"
)

// ErrInvalidRecords is returned when a record export does not conform to
// the record schema.
var ErrInvalidRecords = errors.New("records do not conform to schema")

//go:embed records.schema.json
var recordSchema []byte

// Schema returns the JSON schema of the record export.
func Schema() []byte {
	return append([]byte(nil), recordSchema...)
}

// Validate checks a JSON record export against the schema. Schema
// violations are reported through ErrInvalidRecords, one per line.
func Validate(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(recordSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w:\n%s", ErrInvalidRecords, strings.Join(msgs, "\n"))
}

// ValidateRecords encodes records and validates the result.
func ValidateRecords(records []model.Record) error {
	data, err := MarshalJSON(records)
	if err != nil {
		return err
	}
	return Validate(data)
}
