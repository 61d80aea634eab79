// Package sqlload copies CSV rows into a SQLite table.
package sqlload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/oleg578/rowcsv"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var (
	// ErrNoColumns is returned when Load is given no column names.
	ErrNoColumns = errors.New("sqlload: no columns")
	// ErrTooWide is returned for a record with more fields than columns.
	ErrTooWide = errors.New("sqlload: record has more fields than columns")
)

// Open opens a SQLite database with the pure Go driver.
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// Loader inserts rows into one table.
type Loader struct {
	db    *sql.DB
	table string
	log   zerolog.Logger
}

// NewLoader returns a Loader that writes into table.
func NewLoader(db *sql.DB, table string, log zerolog.Logger) *Loader {
	return &Loader{db: db, table: table, log: log}
}

// Columns returns column names for a header row. Empty names become their
// positional name and repeats get a numeric suffix. SQLite compares column
// names case-insensitively, so uniqueness is checked the same way.
func Columns(header rowcsv.Row) []string {
	used := make(map[string]bool, header.Count())
	for _, f := range header.All() {
		used[strings.ToLower(strings.TrimSpace(f.String()))] = true
	}

	taken := make(map[string]bool, header.Count())
	cols := make([]string, 0, header.Count())
	for i, f := range header.All() {
		name := strings.TrimSpace(f.String())
		if name == "" {
			name = "c" + strconv.Itoa(i+1)
		}
		// A suffixed name must also skip header names that appear later.
		candidate := name
		for n := 2; taken[strings.ToLower(candidate)] || (candidate != name && used[strings.ToLower(candidate)]); n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		taken[strings.ToLower(candidate)] = true
		cols = append(cols, candidate)
	}
	return cols
}

// Positional returns c1..cN for sources without a header.
func Positional(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "c" + strconv.Itoa(i+1)
	}
	return cols
}

// Load creates the table if needed and inserts every row in one
// transaction. Short records are padded with NULL. Any error rolls the
// whole load back.
func (l *Loader) Load(ctx context.Context, columns []string, rows iter.Seq2[rowcsv.Row, error]) (n int, err error) {
	if len(columns) == 0 {
		return 0, ErrNoColumns
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, createStatement(l.table, columns)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", l.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(l.table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for row, rerr := range rows {
		if rerr != nil {
			return n, rerr
		}
		if row.Count() > len(columns) {
			return n, &rowcsv.RowError{Record: n + 1, Err: ErrTooWide}
		}
		for i := range args {
			args[i] = nil
			if b, ok := row.Bytes(i); ok {
				args[i] = string(b)
			}
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return n, &rowcsv.RowError{Record: n + 1, Err: err}
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	l.log.Debug().Str("table", l.table).Int("rows", n).Msg("load committed")
	return n, nil
}

func createStatement(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quoteIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c))
		b.WriteString(" TEXT")
	}
	b.WriteString(")")
	return b.String()
}

func insertStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	return "INSERT INTO " + quoteIdent(table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
}

// quoteIdent doubles embedded quotes, the same rule CSV uses for fields.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
