package vrd

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// DefaultBufferSize is the size of the output buffer between a sink and the
// file.
const DefaultBufferSize = 128 << 10

// ErrSinkFinished is returned by writes after Finish.
var ErrSinkFinished = errors.New("vrd: sink finished")

// Sink is the stage every encoded byte passes through on its way to the file.
// Finish flushes anything still buffered; the sink rejects writes afterwards.
// Finish does not close the underlying writer.
type Sink interface {
	io.Writer
	Finish() error
}

type directSink struct {
	bw       *bufio.Writer
	finished bool
}

// NewDirectSink returns a Sink that writes bytes to w unchanged, through a
// buffer of bufSize bytes.
func NewDirectSink(w io.Writer, bufSize int) Sink {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &directSink{bw: bufio.NewWriterSize(w, bufSize)}
}

func (s *directSink) Write(p []byte) (int, error) {
	if s.finished {
		return 0, ErrSinkFinished
	}
	return s.bw.Write(p)
}

func (s *directSink) Finish() error {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.bw.Flush()
}

type deflateSink struct {
	bw       *bufio.Writer
	zw       *flate.Writer
	finished bool
}

// NewDeflateSink returns a Sink that compresses everything written to it as
// a single raw deflate stream (no zlib or gzip framing). Compressed output
// is collected in a bufSize buffer and written to w whenever it fills; the
// compressor is only forced to flush by Finish.
func NewDeflateSink(w io.Writer, level, bufSize int) (Sink, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	bw := bufio.NewWriterSize(w, bufSize)
	zw, err := flate.NewWriter(bw, level)
	if err != nil {
		return nil, fmt.Errorf("vrd: deflate level %d: %w", level, err)
	}
	return &deflateSink{bw: bw, zw: zw}, nil
}

func (s *deflateSink) Write(p []byte) (int, error) {
	if s.finished {
		return 0, ErrSinkFinished
	}
	return s.zw.Write(p)
}

func (s *deflateSink) Finish() error {
	if s.finished {
		return nil
	}
	s.finished = true
	if err := s.zw.Close(); err != nil {
		return fmt.Errorf("vrd: finish deflate stream: %w", err)
	}
	return s.bw.Flush()
}
