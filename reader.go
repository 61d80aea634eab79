package rowcsv

import (
	"bufio"
	"errors"
	"io"
	"iter"

	"github.com/rs/zerolog"
)

// Reader produces Rows from a byte source, one logical record at a time.
// It is forward-only and must not be used from more than one goroutine.
type Reader struct {
	p      *parser
	delim  rune
	header *Row
	log    zerolog.Logger

	records int
	hint    int
	err     error
}

// NewReader creates a Reader that consumes CSV data from r, panicking if r is
// nil. When a header is configured the first record is parsed and cached
// before NewReader returns.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	if r == nil {
		panic("rowcsv: reader source cannot be nil")
	}
	cfg := defaultReaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.delim == 0 {
		cfg.delim = defaultDelim
	}
	if err := ValidDelimiter(cfg.delim); err != nil {
		return nil, err
	}

	br, ok := r.(*bufio.Reader)
	if !ok || br.Size() < cfg.bufferSize {
		br = bufio.NewReaderSize(r, cfg.bufferSize)
	}

	rd := &Reader{
		p:     newParser(br, cfg.delim, cfg.lazyQuotes),
		delim: cfg.delim,
		log:   cfg.logger,
	}
	if cfg.hasHeader {
		header := NewRow()
		if err := rd.p.readRecord(&header); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrMissingHeader
			}
			return nil, err
		}
		header.delim = cfg.delim
		rd.header = &header
		rd.log.Debug().Int("fields", header.Count()).Msg("header cached")
	}
	return rd, nil
}

// Headers returns a copy of the cached header row, or false when the Reader
// was not configured with a header.
func (r *Reader) Headers() (Row, bool) {
	if r == nil || r.header == nil {
		return Row{}, false
	}
	return r.header.Clone(), true
}

// Line reports the number of physical lines consumed so far, header included.
func (r *Reader) Line() int {
	if r == nil {
		return 0
	}
	return r.p.lineNo
}

// Read parses the next record into a new Row. io.EOF signals that no more
// records remain.
func (r *Reader) Read() (Row, error) {
	if r == nil {
		return Row{}, io.EOF
	}
	row := NewRowSize(r.hint)
	if err := r.ReadInto(&row); err != nil {
		return Row{}, err
	}
	return row, nil
}

// ReadInto parses the next record into dst, reusing its storage. On error
// dst holds no fields.
func (r *Reader) ReadInto(dst *Row) error {
	if r == nil || r.p == nil {
		return io.EOF
	}
	if r.err != nil {
		return r.err
	}

	before := r.p.lineNo
	err := r.p.readRecord(dst)
	if err != nil {
		dst.Reset()
		if errors.Is(err, io.EOF) {
			r.log.Debug().Int("records", r.records).Msg("end of source")
		} else {
			r.log.Warn().Err(err).Int("line", r.p.lineNo).Msg("read record failed")
		}
		r.err = err
		return err
	}
	dst.delim = r.delim
	r.records++
	if n := len(dst.inner); n > r.hint {
		r.hint = n
	}
	if lines := r.p.lineNo - before; lines > 1 {
		r.log.Debug().Int("record", r.records).Int("lines", lines).Msg("multi-line record")
	}
	return nil
}

// ReadAll exhausts the reader, returning the accumulated rows plus the first
// non-EOF error encountered.
func (r *Reader) ReadAll() (rows []Row, err error) {
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Entries returns a lazy sequence of the remaining records. The sequence
// ends silently at the end of the source; a genuine read failure is yielded
// once with an empty Row and ends the sequence.
func (r *Reader) Entries() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Row{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Decode maps every remaining record through conv. A conversion failure is
// yielded as a *RowError and iteration carries on with the next record; a
// read failure is yielded once and ends the sequence.
func Decode[T any](r *Reader, conv func(Row) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for row, err := range r.Entries() {
			if err != nil {
				yield(zero, err)
				return
			}
			v, err := conv(row)
			if err != nil {
				if !yield(zero, &RowError{Record: r.records, Err: err}) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
