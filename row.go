package rowcsv

import (
	"bytes"
	"fmt"
	"iter"
)

// span is a half-open byte range [start, end) into Row.inner.
type span struct {
	start int
	end   int
}

// Row is one record. Field bytes are stored back to back in a single buffer
// with a parallel table of ranges, so parsing a record costs two growing
// slices rather than one allocation per field.
//
// The ranges are always contiguous: the first starts at 0 and each one ends
// where the next begins.
type Row struct {
	inner  []byte
	ranges []span
	delim  rune
}

// NewRow returns an empty comma-delimited row.
func NewRow() Row {
	return Row{delim: defaultDelim}
}

// NewRowSize returns an empty row whose byte buffer can hold size bytes
// before growing.
func NewRowSize(size int) Row {
	if size < 0 {
		size = 0
	}
	return Row{inner: make([]byte, 0, size), delim: defaultDelim}
}

// RowOf builds a row from the display form of each value.
func RowOf(values ...any) Row {
	r := NewRow()
	r.ranges = make([]span, 0, len(values))
	for _, v := range values {
		r.Add(v)
	}
	return r
}

// RowFromStrings builds a row holding fields verbatim.
func RowFromStrings(fields []string) Row {
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	r := NewRowSize(n)
	r.ranges = make([]span, 0, len(fields))
	for _, f := range fields {
		r.AddString(f)
	}
	return r
}

// SetDelimiter sets the delimiter used when the row is rendered.
// It does not change stored field boundaries.
func (r *Row) SetDelimiter(delim rune) {
	r.delim = delim
}

// Delimiter returns the row's rendering delimiter, ',' unless set.
func (r *Row) Delimiter() rune {
	if r.delim == 0 {
		return defaultDelim
	}
	return r.delim
}

// Add appends the display form of v as a new field.
func (r *Row) Add(v any) {
	switch t := v.(type) {
	case string:
		r.AddString(t)
	case []byte:
		r.AddBytes(t)
	case Field:
		r.AddBytes(t)
	default:
		start := len(r.inner)
		r.inner = fmt.Append(r.inner, v)
		r.ranges = append(r.ranges, span{start: start, end: len(r.inner)})
	}
}

// AddBytes appends a copy of field as a new field.
func (r *Row) AddBytes(field []byte) {
	start := len(r.inner)
	r.inner = append(r.inner, field...)
	r.ranges = append(r.ranges, span{start: start, end: len(r.inner)})
}

// AddString appends s as a new field.
func (r *Row) AddString(s string) {
	start := len(r.inner)
	r.inner = append(r.inner, s...)
	r.ranges = append(r.ranges, span{start: start, end: len(r.inner)})
}

// Count returns the number of fields.
func (r *Row) Count() int {
	return len(r.ranges)
}

// Len is an alias of Count.
func (r *Row) Len() int {
	return len(r.ranges)
}

// Field returns a read-only view of field i. The view shares the row's
// storage and is invalidated by any later mutation of the row.
func (r *Row) Field(i int) (Field, error) {
	if i < 0 || i >= len(r.ranges) {
		return nil, &IndexError{Index: i, Count: len(r.ranges)}
	}
	rg := r.ranges[i]
	return Field(r.inner[rg.start:rg.end:rg.end]), nil
}

// Bytes returns the raw bytes of field i, or false when i is out of range.
func (r *Row) Bytes(i int) ([]byte, bool) {
	f, err := r.Field(i)
	if err != nil {
		return nil, false
	}
	return f, true
}

// Value returns the lossily decoded text of field i.
func (r *Row) Value(i int) (string, bool) {
	f, err := r.Field(i)
	if err != nil {
		return "", false
	}
	return lossyText(f), true
}

// At returns the text of field i and panics with an *IndexError when i is
// out of range, like indexing a slice. Use Field or Value for a recoverable
// lookup.
func (r *Row) At(i int) string {
	f, err := r.Field(i)
	if err != nil {
		panic(err)
	}
	return lossyText(f)
}

// Get decodes field i lossily and parses it into T.
func Get[T any](r *Row, i int) (T, error) {
	var zero T
	text, ok := r.Value(i)
	if !ok {
		return zero, &IndexError{Index: i, Count: r.Count()}
	}
	v, err := parseText[T](text)
	if err != nil {
		return zero, &ConversionError{Index: i, Value: text, Type: typeName[T](), Err: err}
	}
	return v, nil
}

// Remove deletes field i, shifting later bytes left and rebasing their
// ranges. Out-of-range indexes are ignored.
func (r *Row) Remove(i int) {
	if i < 0 || i >= len(r.ranges) {
		return
	}
	rg := r.ranges[i]
	width := rg.end - rg.start
	for j := i + 1; j < len(r.ranges); j++ {
		r.ranges[j].start -= width
		r.ranges[j].end -= width
	}
	r.inner = append(r.inner[:rg.start], r.inner[rg.end:]...)
	r.ranges = append(r.ranges[:i], r.ranges[i+1:]...)
}

// Replace swaps field i for the display form of v by rebuilding the row.
// Out-of-range indexes are ignored.
func (r *Row) Replace(i int, v any) {
	if i < 0 || i >= len(r.ranges) {
		return
	}
	next := NewRowSize(len(r.inner))
	next.delim = r.delim
	next.ranges = make([]span, 0, len(r.ranges))
	for j, rg := range r.ranges {
		if j == i {
			next.Add(v)
			continue
		}
		next.AddBytes(r.inner[rg.start:rg.end])
	}
	*r = next
}

// Reset drops all fields while keeping allocated capacity.
func (r *Row) Reset() {
	r.inner = r.inner[:0]
	r.ranges = r.ranges[:0]
}

// All iterates over the fields in order.
func (r *Row) All() iter.Seq2[int, Field] {
	return func(yield func(int, Field) bool) {
		for i, rg := range r.ranges {
			if !yield(i, Field(r.inner[rg.start:rg.end:rg.end])) {
				return
			}
		}
	}
}

// Strings returns the lossily decoded text of every field.
func (r *Row) Strings() []string {
	out := make([]string, len(r.ranges))
	for i, rg := range r.ranges {
		out[i] = lossyText(r.inner[rg.start:rg.end])
	}
	return out
}

// Clone returns an independent copy of the row.
func (r *Row) Clone() Row {
	return Row{
		inner:  bytes.Clone(r.inner),
		ranges: append([]span(nil), r.ranges...),
		delim:  r.delim,
	}
}

// Equal reports whether both rows hold the same fields. Delimiters are ignored.
func (r *Row) Equal(other Row) bool {
	if len(r.ranges) != len(other.ranges) {
		return false
	}
	for i, rg := range r.ranges {
		og := other.ranges[i]
		if !bytes.Equal(r.inner[rg.start:rg.end], other.inner[og.start:og.end]) {
			return false
		}
	}
	return true
}

// String renders the row as one CSV line without the record terminator,
// escaping fields exactly as Writer does. The value receiver lets fmt print
// Row values as well as pointers.
func (r Row) String() string {
	return string(appendRecord(make([]byte, 0, len(r.inner)+2*len(r.ranges)), &r, r.Delimiter(), false))
}
