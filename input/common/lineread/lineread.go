// Package lineread reads newline-terminated records from a pollable file
// without ever blocking longer than a fixed timeout.
package lineread

import (
	"bufio"
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Reader wraps a pipe or FIFO. It is not safe for concurrent use.
type Reader struct {
	file    *os.File
	buf     *bufio.Reader
	timeout time.Duration

	// bytes of a line that was cut short by a deadline.
	pending []byte
}

// New wraps f. The file must support read deadlines (pipes, FIFOs opened
// non-blocking). A timeout of zero disables deadlines.
func New(f *os.File, timeout time.Duration) *Reader {
	return &Reader{
		file:    f,
		buf:     bufio.NewReader(f),
		timeout: timeout,
	}
}

// OpenFIFO opens the FIFO at path for reading without waiting for a writer.
func OpenFIFO(path string, timeout time.Duration) (*Reader, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|nonblockFlag, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open fifo %s", path)
	}

	return New(f, timeout), nil
}

// ReadLine returns the next line without its terminator.
//
// os.ErrDeadlineExceeded means no full line arrived within the timeout; any
// partial line is kept for the next call. io.EOF means no writer is
// attached right now.
func (r *Reader) ReadLine() ([]byte, error) {
	if r.timeout > 0 {
		if err := r.file.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
			return nil, errors.Wrap(err, "failed to set read deadline")
		}
	}

	chunk, err := r.buf.ReadBytes('\n')
	if err != nil {
		r.pending = append(r.pending, chunk...)
		return nil, err
	}

	line := chunk
	if len(r.pending) > 0 {
		line = append(r.pending, chunk...)
		r.pending = nil
	}

	return bytes.TrimRight(line, "\r\n"), nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
