package scraper

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by this package matches exactly one of them
// with errors.Is.
var (
	// ErrStructure means an expected element (table, cell, hyperlink) is absent.
	ErrStructure = errors.New("unexpected page structure")
	// ErrFormat means a field's text does not parse into its target type.
	ErrFormat = errors.New("malformed field")
	// ErrPattern means no hyperlink matches a required link pattern.
	ErrPattern = errors.New("no matching link")
)

var (
	ErrNoResultsTable   = fmt.Errorf("%w: no results table", ErrStructure)
	ErrNoPaginationLink = fmt.Errorf("%w: no pagination link found", ErrPattern)
)

const maxHintLength = 40

// FieldError reports which field of which row could not be extracted
type FieldError struct {
	Kind  error  // ErrStructure, ErrFormat or ErrPattern
	Row   int    // 1-based position in the results table
	Field string // column name, or "id" for the submission detail link
	Text  string // offending text, empty when the element was missing
	Err   error  // underlying parse error, if any
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Kind)
	if e.Text != "" {
		msg += fmt.Sprintf(" %q", hint(e.Text))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func missingField(row int, field string) error {
	return &FieldError{Kind: ErrStructure, Row: row, Field: field}
}

func malformedField(row int, field, text string, err error) error {
	return &FieldError{Kind: ErrFormat, Row: row, Field: field, Text: text, Err: err}
}

// hint shortens text for error messages
func hint(text string) string {
	runes := []rune(text)
	if len(runes) <= maxHintLength {
		return text
	}
	return string(runes[:maxHintLength]) + "..."
}
