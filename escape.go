package rowcsv

import (
	"bytes"
	"unicode/utf8"
)

const (
	quoteByte    = '"'
	defaultDelim = ','
)

var crlf = []byte{'\r', '\n'}

// appendRecord appends the escaped fields of row joined by delim to dst.
// Row.String and Writer.Write both render through here.
func appendRecord(dst []byte, row *Row, delim rune, alwaysQuote bool) []byte {
	var enc [utf8.UTFMax]byte
	d := enc[:utf8.EncodeRune(enc[:], delim)]
	for i, rg := range row.ranges {
		if i > 0 {
			dst = append(dst, d...)
		}
		dst = appendField(dst, row.inner[rg.start:rg.end], d, alwaysQuote)
	}
	return dst
}

// appendField writes one field. A field holding a quote is wrapped and every
// quote doubled; a field holding the delimiter or a line break is wrapped verbatim.
func appendField(dst, field, delim []byte, alwaysQuote bool) []byte {
	hasQuote := bytes.IndexByte(field, quoteByte) >= 0
	if !alwaysQuote && !hasQuote && !fieldNeedsQuote(field, delim) {
		return append(dst, field...)
	}

	dst = append(dst, quoteByte)
	if !hasQuote {
		dst = append(dst, field...)
		return append(dst, quoteByte)
	}
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == quoteByte {
			dst = append(dst, field[start:i+1]...)
			dst = append(dst, quoteByte)
			start = i + 1
		}
	}
	dst = append(dst, field[start:]...)
	return append(dst, quoteByte)
}

func fieldNeedsQuote(field, delim []byte) bool {
	if len(delim) == 1 {
		return bytes.IndexByte(field, delim[0]) >= 0 || bytes.ContainsAny(field, "\r\n")
	}
	return bytes.Contains(field, delim) || bytes.ContainsAny(field, "\r\n")
}
