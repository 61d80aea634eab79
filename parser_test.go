package rowcsv

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	t.Parallel()

	type step struct {
		next scanState
		act  scanAction
	}
	classes := []byteClass{classQuote, classDelim, classCR, classLF, classOther}
	want := map[scanState][]step{
		stateFieldStart: {
			{stateQuoted, actSkip},
			{stateFieldStart, actEndField},
			{stateFieldStart, actSkip},
			{stateFieldStart, actEndRecord},
			{stateUnquoted, actAppend},
		},
		stateUnquoted: {
			{stateUnquoted, actAppend},
			{stateFieldStart, actEndField},
			{stateUnquoted, actSkip},
			{stateFieldStart, actEndRecord},
			{stateUnquoted, actAppend},
		},
		stateQuoted: {
			{stateClosingPair, actSkip},
			{stateQuoted, actAppend},
			{stateQuoted, actAppend},
			{stateQuoted, actAppend},
			{stateQuoted, actAppend},
		},
		stateClosingPair: {
			{stateQuoted, actAppend},
			{stateFieldStart, actEndField},
			{stateClosingPair, actSkip},
			{stateFieldStart, actEndRecord},
			{stateUnquoted, actAppend},
		},
	}

	for state, steps := range want {
		for i, c := range classes {
			next, act := transition(state, c)
			if next != steps[i].next || act != steps[i].act {
				t.Fatalf("transition(%s, %d) = (%s, %d), want (%s, %d)", state, c, next, act, steps[i].next, steps[i].act)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"plain", "fields"},
		{"x,y", "z"},
		{"a\"b", "c"},
		{"a\nb", "c"},
		{"multi\r\nline\r\nfield", ""},
		{"\"", "\"\"", "\"leading", "trailing\""},
		{"", "", "", ""},
		{""},
		{"\r"},
		{"日本,語", "emoji 🎉", "tab\there"},
		{" spaced ", "  "},
		{"mid\"quote", "after,\"", "\n"},
	}

	for _, delim := range []rune{',', ';', '\t', '§'} {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.Delimiter = delim
		for _, fields := range rows {
			if err := w.Write(RowFromStrings(fields)); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}

		r, err := NewReader(&buf, WithDelimiter(delim))
		if err != nil {
			t.Fatalf("NewReader() error = %v", err)
		}
		got, err := r.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(got) != len(rows) {
			t.Fatalf("delimiter %q: got %d rows, want %d", delim, len(got), len(rows))
		}
		for i, fields := range rows {
			if g := rawStrings(got[i]); !reflect.DeepEqual(g, fields) {
				t.Fatalf("delimiter %q row %d = %q, want %q", delim, i, g, fields)
			}
		}
	}
}

func TestWriterMatchesRowString(t *testing.T) {
	t.Parallel()

	rows := []Row{
		RowOf("a", "b,c", `d"e`, "f\ng", ""),
		RowOf(1, 2.5, true),
		RowFromStrings([]string{"\xff\"", "x"}),
		NewRow(),
	}
	semi := RowOf("a;b", "c,d")
	semi.SetDelimiter(';')
	rows = append(rows, semi)

	for _, row := range rows {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.Write(row); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		if want := row.String() + "\r\n"; buf.String() != want {
			t.Fatalf("writer output = %q, want %q", buf.String(), want)
		}
	}
}

func TestReaderRecordShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		header bool
		want   []string
	}{
		{name: "multiLine", input: "\"a\nb\",c\n", want: []string{"a\nb", "c"}},
		{name: "embeddedDelimiter", input: "\"x,y\",z\n", want: []string{"x,y", "z"}},
		{name: "doubledQuote", input: "\"a\"\"b\",c\n", want: []string{"a\"b", "c"}},
		{name: "emptyFields", input: "h1,h2,h3,h4\n,,,\n", header: true, want: []string{"", "", "", ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewReader(strings.NewReader(tc.input), WithHeader(tc.header))
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}
			row, err := r.Read()
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got := rawStrings(row); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Read() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMultiLineRendersBack(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("\"a\nb\",c\n"))
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	row, err := r.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got, want := row.String(), "\"a\nb\",c"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
