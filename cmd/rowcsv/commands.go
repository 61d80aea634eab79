package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/oleg578/rowcsv"
	"github.com/oleg578/rowcsv/internal/config"
	"github.com/oleg578/rowcsv/internal/digest"
	"github.com/oleg578/rowcsv/internal/sqlload"
)

// CatCmd rewrites a CSV file in canonical form.
type CatCmd struct {
	File         string `arg:"" help:"Input file, - for stdin, .xz is decompressed"`
	Output       string `short:"o" default:"-" help:"Output file, - for stdout, .xz is compressed"`
	OutDelimiter string `name:"out-delimiter" help:"Output delimiter (default from config, else comma)"`
	AlwaysQuote  bool   `name:"always-quote" help:"Quote every field"`
}

func (c *CatCmd) Run(ctx *kong.Context, g *Globals) error {
	d, err := g.dialect()
	if err != nil {
		return err
	}
	if c.OutDelimiter != "" {
		if d.OutDelimiter, err = config.ParseDelimiter(c.OutDelimiter); err != nil {
			return fmt.Errorf("--out-delimiter: %w", err)
		}
	}
	if c.AlwaysQuote {
		d.AlwaysQuote = true
	}

	r, in, err := g.open(ctx, c.File, d)
	if err != nil {
		return err
	}
	defer in.Close()

	return copyRows(ctx, c.Output, d, r, func(row *rowcsv.Row) (rowcsv.Row, error) {
		return *row, nil
	})
}

// CutCmd keeps the listed fields, in the order given.
type CutCmd struct {
	File   string `arg:"" help:"Input file, - for stdin, .xz is decompressed"`
	Fields []int  `short:"f" required:"" help:"Zero-based field indexes, comma separated"`
	Output string `short:"o" default:"-" help:"Output file, - for stdout, .xz is compressed"`
}

func (c *CutCmd) Run(ctx *kong.Context, g *Globals) error {
	d, err := g.dialect()
	if err != nil {
		return err
	}
	r, in, err := g.open(ctx, c.File, d)
	if err != nil {
		return err
	}
	defer in.Close()

	out := rowcsv.NewRowSize(64)
	return copyRows(ctx, c.Output, d, r, func(row *rowcsv.Row) (rowcsv.Row, error) {
		out.Reset()
		for _, i := range c.Fields {
			f, err := row.Field(i)
			if err != nil {
				return rowcsv.Row{}, err
			}
			out.AddBytes(f)
		}
		return out, nil
	})
}

// copyRows streams rows from r through pick into the output path. The
// header, if any, goes through pick first.
func copyRows(ctx *kong.Context, path string, d config.Dialect, r *rowcsv.Reader, pick func(*rowcsv.Row) (rowcsv.Row, error)) (err error) {
	w, closer, err := create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}()
	d.ConfigureWriter(w)

	record := 0
	emit := func(row *rowcsv.Row) error {
		record++
		out, err := pick(row)
		if err != nil {
			return &rowcsv.RowError{Record: record, Err: err}
		}
		return w.Write(out)
	}

	if header, ok := r.Headers(); ok {
		if err := emit(&header); err != nil {
			return err
		}
	}

	row := rowcsv.NewRowSize(256)
	for {
		if err := r.ReadInto(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := emit(&row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// HeadersCmd lists the header fields with their indexes.
type HeadersCmd struct {
	File string `arg:"" help:"Input file, - for stdin, .xz is decompressed"`
}

func (c *HeadersCmd) Run(ctx *kong.Context, g *Globals) error {
	d, err := g.dialect()
	if err != nil {
		return err
	}
	d.Header = true

	r, in, err := g.open(ctx, c.File, d)
	if err != nil {
		return err
	}
	defer in.Close()

	header, _ := r.Headers()
	for i, f := range header.All() {
		fmt.Fprintf(ctx.Stdout, "%d\t%s\n", i, f)
	}
	return nil
}

// StatsCmd summarizes the shape of a CSV file.
type StatsCmd struct {
	File string `arg:"" help:"Input file, - for stdin, .xz is decompressed"`
}

func (c *StatsCmd) Run(ctx *kong.Context, g *Globals) error {
	d, err := g.dialect()
	if err != nil {
		return err
	}
	r, in, err := g.open(ctx, c.File, d)
	if err != nil {
		return err
	}
	defer in.Close()

	var records, minFields, maxFields, fields int
	var payload uint64
	row := rowcsv.NewRowSize(256)
	for {
		if err := r.ReadInto(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		n := row.Count()
		if records == 0 || n < minFields {
			minFields = n
		}
		maxFields = max(maxFields, n)
		fields += n
		for _, f := range row.All() {
			payload += uint64(len(f))
		}
		records++
	}

	if header, ok := r.Headers(); ok {
		fmt.Fprintf(ctx.Stdout, "header:  %d fields\n", header.Count())
	}
	fmt.Fprintf(ctx.Stdout, "records: %s\n", humanize.Comma(int64(records)))
	fmt.Fprintf(ctx.Stdout, "fields:  %s (min %d, max %d)\n", humanize.Comma(int64(fields)), minFields, maxFields)
	fmt.Fprintf(ctx.Stdout, "lines:   %s\n", humanize.Comma(int64(r.Line())))
	fmt.Fprintf(ctx.Stdout, "payload: %s\n", humanize.Bytes(payload))
	fmt.Fprintf(ctx.Stdout, "input:   %s\n", humanize.Bytes(uint64(in.BytesRead())))
	return nil
}

// DigestCmd hashes the parsed rows so files that differ only in dialect
// compare equal.
type DigestCmd struct {
	File   string `arg:"" help:"Input file, - for stdin, .xz is decompressed"`
	PerRow bool   `name:"per-row" help:"Also print a digest for every row"`
}

func (c *DigestCmd) Run(ctx *kong.Context, g *Globals) error {
	d, err := g.dialect()
	if err != nil {
		return err
	}
	r, in, err := g.open(ctx, c.File, d)
	if err != nil {
		return err
	}
	defer in.Close()

	s := digest.NewStream()
	add := func(row rowcsv.Row) error {
		if c.PerRow {
			fmt.Fprintf(ctx.Stdout, "%d\t%s\n", s.Rows()+1, digest.Row(row))
		}
		return s.Add(row)
	}

	if header, ok := r.Headers(); ok {
		if err := add(header); err != nil {
			return err
		}
	}
	for row, err := range r.Entries() {
		if err != nil {
			return err
		}
		if err := add(row); err != nil {
			return err
		}
	}

	sum, err := s.Sum()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "%s  %s\n", sum, c.File)
	return nil
}

// LoadCmd copies a CSV file into a SQLite table.
type LoadCmd struct {
	File  string `arg:"" help:"Input file, - for stdin, .xz is decompressed"`
	DB    string `name:"db" required:"" help:"SQLite database path"`
	Table string `required:"" help:"Destination table, created when missing"`
}

func (c *LoadCmd) Run(ctx *kong.Context, g *Globals) error {
	d, err := g.dialect()
	if err != nil {
		return err
	}
	r, in, err := g.open(ctx, c.File, d)
	if err != nil {
		return err
	}
	defer in.Close()

	var columns []string
	rows := r.Entries()
	if header, ok := r.Headers(); ok {
		columns = sqlload.Columns(header)
	} else {
		first, err := r.Read()
		if errors.Is(err, io.EOF) {
			fmt.Fprintf(ctx.Stdout, "no rows in %s\n", c.File)
			return nil
		}
		if err != nil {
			return err
		}
		columns = sqlload.Positional(first.Count())
		rows = prepend(first, rows)
	}

	db, err := sqlload.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := sqlload.NewLoader(db, c.Table, g.logger(ctx)).Load(context.Background(), columns, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "loaded %s rows into %s\n", humanize.Comma(int64(n)), c.Table)
	return nil
}

func prepend(first rowcsv.Row, rest iter.Seq2[rowcsv.Row, error]) iter.Seq2[rowcsv.Row, error] {
	return func(yield func(rowcsv.Row, error) bool) {
		if !yield(first, nil) {
			return
		}
		for row, err := range rest {
			if !yield(row, err) {
				return
			}
		}
	}
}
