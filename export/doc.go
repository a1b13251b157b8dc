// Package export writes classified screenplay records in several formats:
// JSON (the record list, checked against a JSON schema), HTML, Fountain
// plain-text screenplay markup, and a re-typeset PDF in standard
// screenplay margins.
package export
