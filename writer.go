package rowcsv

import (
	"bufio"
	"errors"
	"io"
)

var (
	errNilWriter      = errors.New("rowcsv: writer is nil")
	errWriterNoTarget = errors.New("rowcsv: writer destination cannot be nil")
)

// Writer serializes Rows to a buffered byte sink. Every record ends with
// "\r\n". Data reaches the sink on Flush or when the buffer fills.
type Writer struct {
	dst *bufio.Writer

	// Delimiter overrides the field delimiter. Zero uses each row's own delimiter.
	Delimiter rune
	// AlwaysQuote forces quoting for all fields when enabled.
	AlwaysQuote bool

	line    []byte
	scratch Row
	err     error
}

// NewWriter creates a new Writer with internal buffering tuned for bulk writes.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:  bufio.NewWriterSize(w, defaultBufferSize),
		line: make([]byte, 0, 256),
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.err = nil
}

// Write emits a single record terminated with "\r\n".
func (w *Writer) Write(row Row) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	delim := w.Delimiter
	if delim == 0 {
		delim = row.Delimiter()
	}
	w.line = appendRecord(w.line[:0], &row, delim, w.AlwaysQuote)
	w.line = append(w.line, crlf...)
	if _, err := w.dst.Write(w.line); err != nil {
		w.err = &IOError{Op: "write", Err: err}
		return w.err
	}
	return nil
}

// WriteAll writes multiple rows, stopping at the first error. Rows written
// before the failure are not rolled back.
func (w *Writer) WriteAll(rows []Row) error {
	if w == nil {
		return errNilWriter
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteStrings emits one record built from plain strings.
func (w *Writer) WriteStrings(fields []string) error {
	if w == nil {
		return errNilWriter
	}
	w.scratch.Reset()
	for _, f := range fields {
		w.scratch.AddString(f)
	}
	return w.Write(w.scratch)
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = &IOError{Op: "flush", Err: err}
		return w.err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}
