// Command rowcsv reads, rewrites, inspects, hashes, and loads CSV files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/oleg578/rowcsv"
	"github.com/oleg578/rowcsv/internal/config"
	"github.com/oleg578/rowcsv/internal/logging"
	"github.com/oleg578/rowcsv/internal/source"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config     string `name:"config" short:"c" help:"TOML dialect file" type:"existingfile"`
	Delimiter  string `short:"d" help:"Input delimiter: one character, or tab, comma, semicolon, pipe"`
	Header     bool   `help:"Treat the first record as a header" xor:"header"`
	NoHeader   bool   `help:"Treat the first record as data" xor:"header"`
	LazyQuotes bool   `help:"Accept an unterminated quoted field at end of input"`
	LogLevel   string `name:"log-level" help:"Log level (trace, debug, info, warn, error, disabled)"`
}

// CLI defines the command-line interface for rowcsv.
type CLI struct {
	Globals

	Cat     CatCmd     `cmd:"" help:"Rewrite a CSV file with CRLF endings and minimal quoting"`
	Headers HeadersCmd `cmd:"" help:"Print the header fields of a CSV file"`
	Cut     CutCmd     `cmd:"" help:"Select fields by index"`
	Stats   StatsCmd   `cmd:"" help:"Count records, fields and bytes"`
	Digest  DigestCmd  `cmd:"" help:"Compute a BLAKE3 digest of the parsed rows"`
	Load    LoadCmd    `cmd:"" help:"Load rows into a SQLite table"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("rowcsv"),
		kong.Description("Streaming CSV toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}
	return kong.New(cli, append(base, opts...)...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(ctx, &cli.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) dialect() (config.Dialect, error) {
	d := config.Default()
	if g.Config != "" {
		var err error
		if d, err = config.Load(g.Config); err != nil {
			return config.Dialect{}, err
		}
	}
	if g.Delimiter != "" {
		r, err := config.ParseDelimiter(g.Delimiter)
		if err != nil {
			return config.Dialect{}, fmt.Errorf("--delimiter: %w", err)
		}
		d.Delimiter = r
	}
	switch {
	case g.Header:
		d.Header = true
	case g.NoHeader:
		d.Header = false
	}
	if g.LazyQuotes {
		d.LazyQuotes = true
	}
	return d, nil
}

func (g *Globals) logger(ctx *kong.Context) zerolog.Logger {
	return logging.New(logging.ProfileRuntime, ctx.Stderr, g.LogLevel)
}

// open resolves the dialect and opens path for reading.
func (g *Globals) open(ctx *kong.Context, path string, d config.Dialect) (*rowcsv.Reader, *source.Input, error) {
	log := g.logger(ctx)
	r, in, err := source.OpenReader(path, d.ReaderOptions(log)...)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("path", path).Bool("header", d.Header).Msg("input opened")
	return r, in, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// create opens an output. "-" writes to the command's stdout.
func create(ctx *kong.Context, path string) (*rowcsv.Writer, io.Closer, error) {
	if path == "" || path == source.Stdio {
		return rowcsv.NewWriter(ctx.Stdout), nopCloser{}, nil
	}
	return source.CreateWriter(path)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "rowcsv version %s\n", version)
	return nil
}
