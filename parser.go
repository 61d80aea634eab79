package rowcsv

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// scanState is the position of the scanner relative to quoting.
type scanState uint8

const (
	// stateFieldStart: nothing consumed for the current field yet.
	stateFieldStart scanState = iota
	// stateUnquoted: inside a field that did not open with a quote.
	stateUnquoted
	// stateQuoted: inside a field opened by a leading quote.
	stateQuoted
	// stateClosingPair: a quote was seen inside a quoted field; the next byte
	// decides whether it closed the field or was the first half of "".
	stateClosingPair
)

func (s scanState) String() string {
	switch s {
	case stateFieldStart:
		return "field-start"
	case stateUnquoted:
		return "unquoted"
	case stateQuoted:
		return "quoted"
	case stateClosingPair:
		return "closing-pair"
	}
	return "unknown"
}

type byteClass uint8

const (
	classOther byteClass = iota
	classQuote
	classDelim
	classCR
	classLF
)

type scanAction uint8

const (
	actAppend scanAction = iota
	actSkip
	actEndField
	actEndRecord
)

// transition is the whole quoting grammar. Only a quote at the start of a
// field opens quoting; elsewhere in an unquoted field it is data.
func transition(s scanState, c byteClass) (scanState, scanAction) {
	switch s {
	case stateQuoted:
		if c == classQuote {
			return stateClosingPair, actSkip
		}
		return stateQuoted, actAppend
	case stateClosingPair:
		switch c {
		case classQuote:
			return stateQuoted, actAppend
		case classDelim:
			return stateFieldStart, actEndField
		case classCR:
			return stateClosingPair, actSkip
		case classLF:
			return stateFieldStart, actEndRecord
		}
		return stateUnquoted, actAppend
	case stateFieldStart:
		if c == classQuote {
			return stateQuoted, actSkip
		}
		fallthrough
	default:
		switch c {
		case classDelim:
			return stateFieldStart, actEndField
		case classCR:
			return s, actSkip
		case classLF:
			return stateFieldStart, actEndRecord
		}
		return stateUnquoted, actAppend
	}
}

// parser splits one logical record at a time out of a buffered source.
// line and field are scratch buffers reused across records; field bytes are
// copied into the destination Row before they are reused.
type parser struct {
	src   *bufio.Reader
	delim []byte
	lazy  bool

	line   []byte
	field  []byte
	lineNo int
}

func newParser(src *bufio.Reader, delim rune, lazy bool) *parser {
	var enc [utf8.UTFMax]byte
	n := utf8.EncodeRune(enc[:], delim)
	return &parser{
		src:   src,
		delim: append([]byte(nil), enc[:n]...),
		lazy:  lazy,
		line:  make([]byte, 0, 128),
		field: make([]byte, 0, 64),
	}
}

// readRecord fills dst with the next record. It returns io.EOF when the
// source holds no further bytes, a *ParseError for a quoted field left open
// at the end of the source, and an *IOError for any other read failure.
func (p *parser) readRecord(dst *Row) error {
	dst.Reset()
	p.field = p.field[:0]
	state := stateFieldStart
	started := false

	for {
		err := p.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return &IOError{Op: "read", Err: err}
		}
		if len(p.line) == 0 {
			if !started {
				return io.EOF
			}
			return p.finish(dst, state, p.lineNo+1, 1)
		}
		started = true
		p.lineNo++

		var done bool
		state, done = p.scan(dst, state)
		if done {
			return nil
		}
		if err != nil {
			return p.finish(dst, state, p.lineNo, len(p.line)+1)
		}
	}
}

// finish flushes the pending field once the source ended without a line feed.
func (p *parser) finish(dst *Row, state scanState, line, column int) error {
	if state == stateQuoted && !p.lazy {
		return &ParseError{Line: line, Column: column, Err: ErrUnterminatedQuote}
	}
	dst.AddBytes(p.field)
	p.field = p.field[:0]
	return nil
}

// readLine loads one physical line, including its '\n' when present.
func (p *parser) readLine() error {
	p.line = p.line[:0]
	for {
		chunk, err := p.src.ReadSlice('\n')
		p.line = append(p.line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return err
	}
}

// scan feeds the current line through the state machine. It reports true
// once a line feed outside quotes completed the record.
func (p *parser) scan(dst *Row, state scanState) (scanState, bool) {
	line := p.line
	for i := 0; i < len(line); {
		class, width := p.classify(line[i:])
		next, act := transition(state, class)
		end := i + width
		switch act {
		case actAppend:
			// Copy the whole run of ordinary bytes in one append.
			switch next {
			case stateQuoted:
				if j := bytes.IndexByte(line[end:], quoteByte); j >= 0 {
					end += j
				} else {
					end = len(line)
				}
			case stateUnquoted:
				end += p.plainRun(line[end:])
			}
			p.field = append(p.field, line[i:end]...)
		case actEndField:
			dst.AddBytes(p.field)
			p.field = p.field[:0]
		case actEndRecord:
			dst.AddBytes(p.field)
			p.field = p.field[:0]
			return next, true
		}
		state = next
		i = end
	}
	return state, false
}

func (p *parser) classify(b []byte) (byteClass, int) {
	switch b[0] {
	case quoteByte:
		return classQuote, 1
	case '\r':
		return classCR, 1
	case '\n':
		return classLF, 1
	}
	if b[0] == p.delim[0] && bytes.HasPrefix(b, p.delim) {
		return classDelim, len(p.delim)
	}
	if b[0] < utf8.RuneSelf {
		return classOther, 1
	}
	_, w := utf8.DecodeRune(b)
	return classOther, w
}

// plainRun counts leading bytes that cannot change an unquoted field's state.
func (p *parser) plainRun(b []byte) int {
	d := p.delim[0]
	for i, c := range b {
		if c == d || c == '\r' || c == '\n' {
			return i
		}
	}
	return len(b)
}
