// Package config loads a CSV dialect from a TOML file.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/oleg578/rowcsv"
	"github.com/rs/zerolog"
)

// Dialect describes how the command reads and writes CSV.
type Dialect struct {
	Delimiter    rune
	OutDelimiter rune
	Header       bool
	LazyQuotes   bool
	AlwaysQuote  bool
	BufferSize   int
}

type fileDialect struct {
	Delimiter    string `toml:"delimiter"`
	OutDelimiter string `toml:"out_delimiter"`
	Header       bool   `toml:"header"`
	LazyQuotes   bool   `toml:"lazy_quotes"`
	AlwaysQuote  bool   `toml:"always_quote"`
	BufferSize   int    `toml:"buffer_size"`
}

// Default is comma separated input and output with no header.
func Default() Dialect {
	return Dialect{
		Delimiter:    ',',
		OutDelimiter: ',',
	}
}

// Load reads a dialect file. Keys missing from the file keep their defaults.
func Load(path string) (Dialect, error) {
	var raw fileDialect
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Dialect{}, fmt.Errorf("load dialect: %w", err)
	}
	return apply(Default(), raw, meta)
}

// Decode parses dialect TOML held in memory.
func Decode(data string) (Dialect, error) {
	var raw fileDialect
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Dialect{}, fmt.Errorf("decode dialect: %w", err)
	}
	return apply(Default(), raw, meta)
}

func apply(d Dialect, raw fileDialect, meta toml.MetaData) (Dialect, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Dialect{}, fmt.Errorf("unknown dialect key %q", undecoded[0].String())
	}

	if meta.IsDefined("delimiter") {
		r, err := ParseDelimiter(raw.Delimiter)
		if err != nil {
			return Dialect{}, fmt.Errorf("parse delimiter: %w", err)
		}
		d.Delimiter = r
		d.OutDelimiter = r
	}

	if meta.IsDefined("out_delimiter") {
		r, err := ParseDelimiter(raw.OutDelimiter)
		if err != nil {
			return Dialect{}, fmt.Errorf("parse out_delimiter: %w", err)
		}
		d.OutDelimiter = r
	}

	if meta.IsDefined("header") {
		d.Header = raw.Header
	}

	if meta.IsDefined("lazy_quotes") {
		d.LazyQuotes = raw.LazyQuotes
	}

	if meta.IsDefined("always_quote") {
		d.AlwaysQuote = raw.AlwaysQuote
	}

	if meta.IsDefined("buffer_size") {
		if raw.BufferSize < 0 {
			return Dialect{}, fmt.Errorf("buffer_size must not be negative, got %d", raw.BufferSize)
		}
		d.BufferSize = raw.BufferSize
	}

	return d, d.Validate()
}

// ParseDelimiter turns a user supplied delimiter into a rune. It accepts a
// single character or one of the names "tab", "comma", "semicolon", "pipe".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	if err := rowcsv.ValidDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}

// Validate checks both delimiters.
func (d Dialect) Validate() error {
	if err := rowcsv.ValidDelimiter(d.Delimiter); err != nil {
		return fmt.Errorf("delimiter: %w", err)
	}
	if err := rowcsv.ValidDelimiter(d.OutDelimiter); err != nil {
		return fmt.Errorf("out_delimiter: %w", err)
	}
	return nil
}

// ReaderOptions converts the dialect into reader options.
func (d Dialect) ReaderOptions(logger zerolog.Logger) []rowcsv.Option {
	opts := []rowcsv.Option{
		rowcsv.WithDelimiter(d.Delimiter),
		rowcsv.WithHeader(d.Header),
		rowcsv.WithLazyQuotes(d.LazyQuotes),
		rowcsv.WithLogger(logger),
	}
	if d.BufferSize > 0 {
		opts = append(opts, rowcsv.WithBufferSize(d.BufferSize))
	}
	return opts
}

// ConfigureWriter applies the output side of the dialect to w.
func (d Dialect) ConfigureWriter(w *rowcsv.Writer) {
	w.Delimiter = d.OutDelimiter
	w.AlwaysQuote = d.AlwaysQuote
}
