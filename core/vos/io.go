package vos

import (
	"io"
	"os"
	"sync"
)

// Stream is a readable/writable endpoint that can stand in for a process's
// standard input or output: a file, a pipe end or an inherited descriptor.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer

	// Name describes the stream, usually a path.
	Name() string
}

// namedReadWriteCloser is the resource a Stream wraps. *os.File and
// afero.File both satisfy it.
type namedReadWriteCloser interface {
	io.ReadWriteCloser
	Name() string
}

// NewStream wraps f so that closing it more than once releases f only once.
func NewStream(f namedReadWriteCloser) Stream {
	return &stream{file: f}
}

type stream struct {
	file namedReadWriteCloser

	once sync.Once
	err  error
}

var _ Stream = (*stream)(nil)

func (s *stream) Read(b []byte) (int, error) {
	return s.file.Read(b)
}

func (s *stream) Write(b []byte) (int, error) {
	return s.file.Write(b)
}

func (s *stream) Name() string {
	return s.file.Name()
}

// Close implements io.Closer, only the first call reaches the underlying file.
func (s *stream) Close() error {
	s.once.Do(func() {
		s.err = s.file.Close()
	})
	return s.err
}

// OSFile returns the operating system file backing s, if there is one.
func OSFile(s Stream) (*os.File, bool) {
	switch v := s.(type) {
	case *stream:
		f, ok := v.file.(*os.File)
		return f, ok
	case *os.File:
		return v, true
	default:
		return nil, false
	}
}

// Pipe is a connected pair of streams, bytes written to Output can be read
// from Input.
type Pipe struct {
	// Input is the read end.
	Input Stream
	// Output is the write end.
	Output Stream
}

// Close closes both ends.
func (p *Pipe) Close() error {
	inErr := p.Input.Close()
	outErr := p.Output.Close()
	if inErr != nil {
		return inErr
	}
	return outErr
}

func toReaderOrDiscard(s Stream, fallback io.Reader) io.Reader {
	switch {
	case s != nil:
		return s
	case fallback != nil:
		return fallback
	default:
		return &devNull{}
	}
}

func toWriterOrDiscard(s Stream, fallback io.Writer) io.Writer {
	switch {
	case s != nil:
		return s
	case fallback != nil:
		return fallback
	default:
		return &devNull{}
	}
}

// devNull implements io.Reader and io.Writer, reads hit end of file
// immediately and writes are discarded.
type devNull struct{}

var _ io.ReadWriter = (*devNull)(nil)

func (*devNull) Read([]byte) (int, error) {
	return 0, io.EOF
}

func (*devNull) Write(b []byte) (int, error) {
	return len(b), nil
}
