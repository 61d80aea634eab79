// Package source opens CSV inputs and outputs for the rowcsv command.
// A path of "-" means stdin or stdout, and paths ending in ".xz" are
// compressed or decompressed on the fly.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oleg578/rowcsv"
	"github.com/ulikunitz/xz"
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"

// Input wraps an opened source with transparent decompression.
type Input struct {
	io.Reader
	file *os.File
	read int64
}

// Open opens path for reading.
func Open(path string) (*Input, error) {
	if path == "" || path == Stdio {
		return &Input{Reader: os.Stdin}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	in := &Input{file: f}
	in.Reader = f
	if isXZ(path) {
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		in.Reader = xzr
	}
	return in, nil
}

// Read counts the decoded bytes handed to the caller.
func (in *Input) Read(p []byte) (int, error) {
	n, err := in.Reader.Read(p)
	in.read += int64(n)
	return n, err
}

// BytesRead reports how many decoded bytes were consumed so far.
func (in *Input) BytesRead() int64 {
	return in.read
}

// Close closes the underlying file. Stdin is left open.
func (in *Input) Close() error {
	if in.file == nil {
		return nil
	}
	return in.file.Close()
}

// OpenReader opens path and wraps it in a rowcsv.Reader. The caller closes
// the returned Input once done with the reader.
func OpenReader(path string, opts ...rowcsv.Option) (*rowcsv.Reader, *Input, error) {
	in, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := rowcsv.NewReader(in, opts...)
	if err != nil {
		in.Close()
		return nil, nil, err
	}
	return r, in, nil
}

// Output is a write target that may compress.
type Output struct {
	io.Writer
	file *os.File
	xzw  *xz.Writer
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Output, error) {
	if path == "" || path == Stdio {
		return &Output{Writer: os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	out := &Output{Writer: f, file: f}
	if isXZ(path) {
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		out.xzw = xzw
		out.Writer = xzw
	}
	return out, nil
}

// Close finishes the compressed stream, if any, and closes the file.
func (o *Output) Close() error {
	var errs []error
	if o.xzw != nil {
		if err := o.xzw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.file != nil {
		if err := o.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CreateWriter opens path and wraps it in a rowcsv.Writer. Flush the writer
// before closing the Output.
func CreateWriter(path string) (*rowcsv.Writer, *Output, error) {
	out, err := Create(path)
	if err != nil {
		return nil, nil, err
	}
	return rowcsv.NewWriter(out), out, nil
}

func isXZ(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xz")
}
