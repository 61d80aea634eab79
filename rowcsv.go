// # rowcsv: Row-Oriented CSV Reading and Writing for Go
//
// rowcsv parses CSV (RFC 4180 style) into Rows and serializes Rows back into
// correctly escaped CSV. A Row keeps all of its field bytes in one buffer plus
// a table of byte ranges, so parsing a record does not allocate per field.
//
// # Features
//
//   - Streaming Reader with a configurable delimiter (any rune), an optional
//     cached header row, multi-line quoted fields, and lazy iteration via
//     `Reader.Entries` and `Decode`.
//   - Buffered Writer that always terminates records with "\r\n" and escapes
//     fields exactly like `Row.String`.
//   - Typed field access through `Get` and `Cast`, with `*ConversionError`,
//     `*IndexError`, `*ParseError` and `*IOError` describing failures.
//
// # Quoting
//
// A field is quoted on write when it contains a double quote, the delimiter,
// '\r' or '\n'; embedded quotes are doubled. On read only a quote that opens a
// field starts quoting. A quote in the middle of an unquoted field is kept as
// data, and '\r' outside quotes is dropped.
//
// # Getting Started
//
//	r, err := rowcsv.NewReader(file, rowcsv.WithHeader(true))
//	if err != nil {
//		return err
//	}
//	for row, err := range r.Entries() {
//		if err != nil {
//			return err
//		}
//		price, err := rowcsv.Get[float64](&row, 3)
//		...
//	}
package rowcsv
