// Package finerror defines the error taxonomy shared by the import, storage
// and reconciliation layers. Callers match on the concrete types with
// errors.As to decide what is fatal, what is shown to the user and what is
// only logged.
package finerror

import (
	"fmt"
	"strings"
)

// ExpectedColumnsHint is shown whenever an import yields nothing usable.
const ExpectedColumnsHint = "expected columns: Date, Description (or Category), Amount"

// ValidationError represents bad user input. It is reported immediately and
// never retried.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Reason)
}

// ParseError represents an input file that could not be read as tabular data.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse '%s' as a spreadsheet (%s): %v", e.File, ExpectedColumnsHint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError represents a readable file in which no row survived
// normalization.
type FormatError struct {
	File string
	Rows int
	Hint string
}

func (e *FormatError) Error() string {
	hint := e.Hint
	if hint == "" {
		hint = ExpectedColumnsHint
	}
	return fmt.Sprintf("no valid rows in '%s' (%d rows read); %s", e.File, e.Rows, hint)
}

// RowRejection is a single import row that failed normalization. It is
// absorbed by the importer and only counted.
type RowRejection struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *RowRejection) Error() string {
	return fmt.Sprintf("row %d rejected: %s='%s': %s", e.Row, e.Field, e.Value, e.Reason)
}

// SourceUnavailableError is a data source that timed out, errored or returned
// an unusable body.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// StoreWriteError is a persistence failure. The core never retries it.
type StoreWriteError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store %s on %s failed: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// AllSourcesError is returned when every source of a reconciliation failed.
type AllSourcesError struct {
	Failures []*SourceUnavailableError
}

func (e *AllSourcesError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Source)
	}
	return fmt.Sprintf("all sources unavailable: %s", strings.Join(names, ", "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AllSourcesError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
