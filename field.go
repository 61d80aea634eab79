package rowcsv

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field is the raw content of one cell. A Field obtained from a Row borrows
// the row's storage; one built with NewField owns its bytes.
type Field []byte

// NewField builds a Field from the display form of v.
func NewField(v any) Field {
	switch t := v.(type) {
	case Field:
		return append(Field(nil), t...)
	case []byte:
		return append(Field(nil), t...)
	case string:
		return Field(t)
	}
	return Field(fmt.Sprint(v))
}

// Bytes returns the raw field bytes.
func (f Field) Bytes() []byte {
	return f
}

// String decodes the field lossily: invalid UTF-8 sequences become U+FFFD.
func (f Field) String() string {
	return lossyText(f)
}

// Equal reports whether both fields hold the same text.
func (f Field) Equal(other Field) bool {
	return bytes.Equal(f, other)
}

// Cast interprets the field as strict UTF-8 text and parses it into T.
func Cast[T any](f Field) (T, error) {
	var zero T
	if !utf8.Valid(f) {
		return zero, ErrInvalidText
	}
	v, err := parseText[T](string(f))
	if err != nil {
		return zero, &ConversionError{Index: -1, Value: string(f), Type: typeName[T](), Err: err}
	}
	return v, nil
}

func lossyText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
