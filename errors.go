package rowcsv

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedQuote is returned when a quoted field is not closed before the source ends.
	ErrUnterminatedQuote = errors.New("rowcsv: unterminated quoted field")
	// ErrNotAField is returned when a field index does not exist in a row.
	ErrNotAField = errors.New("rowcsv: not a field")
	// ErrInvalidText is returned when field bytes are not valid UTF-8 where strict decoding is required.
	ErrInvalidText = errors.New("rowcsv: field is not valid UTF-8 text")
	// ErrMissingHeader is returned when a header is configured but the source holds no records.
	ErrMissingHeader = errors.New("rowcsv: header expected but source is empty")
	// ErrUnsupportedType is returned when a field cannot be cast to the requested Go type.
	ErrUnsupportedType = errors.New("rowcsv: unsupported cast target")
)

// ParseError contains location information for malformed records.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rowcsv: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IOError wraps a failure of the underlying byte source or sink.
type IOError struct {
	Op  string
	Err error
}

// Error formats the failed operation and its cause.
func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rowcsv: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConversionError reports a field whose text could not be parsed into Type.
// Index is -1 when the field was cast on its own rather than through a Row.
type ConversionError struct {
	Index int
	Value string
	Type  string
	Err   error
}

// Error formats the field, its text and the target type.
func (e *ConversionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Index < 0 {
		return fmt.Sprintf("rowcsv: cannot parse field %q into %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("rowcsv: cannot parse field %d with value %q into %s: %v", e.Index, e.Value, e.Type, e.Err)
}

// Unwrap returns the parser's error, or ErrUnsupportedType.
func (e *ConversionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IndexError reports an access past the end of a row.
type IndexError struct {
	Index int
	Count int
}

// Error formats the requested index and the row width.
func (e *IndexError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rowcsv: no field at index %d (row has %d)", e.Index, e.Count)
}

// Unwrap always reports ErrNotAField.
func (e *IndexError) Unwrap() error {
	return ErrNotAField
}

// RowError attaches the 1-based record number to a failure raised while
// decoding that record into an application type.
type RowError struct {
	Record int
	Err    error
}

// Error prefixes the cause with the record number.
func (e *RowError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rowcsv: record %d: %v", e.Record, e.Err)
}

// Unwrap returns the conversion failure.
func (e *RowError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
