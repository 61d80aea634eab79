package rowcsv

import (
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const defaultBufferSize = 1 << 12 // 4096 bytes

// Option configures a Reader.
type Option func(*readerConfig)

type readerConfig struct {
	delim      rune
	hasHeader  bool
	lazyQuotes bool
	bufferSize int
	logger     zerolog.Logger
}

func defaultReaderConfig() readerConfig {
	return readerConfig{
		delim:      defaultDelim,
		bufferSize: defaultBufferSize,
		logger:     zerolog.Nop(),
	}
}

// WithDelimiter sets the field delimiter. Default is ','.
func WithDelimiter(delim rune) Option {
	return func(c *readerConfig) {
		c.delim = delim
	}
}

// WithHeader makes the Reader consume the first record as the header.
func WithHeader(hasHeader bool) Option {
	return func(c *readerConfig) {
		c.hasHeader = hasHeader
	}
}

// WithLazyQuotes accepts a quoted field left open at the end of the source
// instead of failing with ErrUnterminatedQuote.
func WithLazyQuotes(lazy bool) Option {
	return func(c *readerConfig) {
		c.lazyQuotes = lazy
	}
}

// WithBufferSize sets the size of the read buffer. Values below 16 are ignored.
func WithBufferSize(n int) Option {
	return func(c *readerConfig) {
		if n >= 16 {
			c.bufferSize = n
		}
	}
}

// WithLogger attaches a logger for debug and warning events. The default
// logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *readerConfig) {
		c.logger = l
	}
}

// ValidDelimiter reports whether delim can separate fields.
func ValidDelimiter(delim rune) error {
	switch {
	case delim == quoteByte, delim == '\r', delim == '\n':
		return fmt.Errorf("rowcsv: delimiter %q is reserved", delim)
	case delim == utf8.RuneError, !utf8.ValidRune(delim), delim <= 0:
		return fmt.Errorf("rowcsv: delimiter %q is not a valid character", delim)
	}
	return nil
}
