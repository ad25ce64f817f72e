// Package bufstream pairs a user-space read buffer with the descriptor it
// sits on, the way a stdio FILE sits on a file descriptor.
//
// A Stream keeps its own cursor. The cursor and the descriptor's kernel offset
// agree after Open, FromFd, Seek, Flush (and therefore Fd) and Resync. They
// drift apart when the stream reads ahead into its buffer, or when somebody
// moves the descriptor directly with SeekFd.
package bufstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultBufferSize matches a typical stdio BUFSIZ.
const DefaultBufferSize = 4096

var (
	// ErrClosed is returned by operations on a closed Stream.
	ErrClosed = errors.New("bufstream: stream closed")
	// ErrInvalidWhence is returned by Seek for an unknown whence value.
	ErrInvalidWhence = errors.New("bufstream: invalid whence")
	// ErrNegativePosition is returned by Seek when the result would be before the start of the file.
	ErrNegativePosition = errors.New("bufstream: negative position")
)

// Stream is a buffered, read-only view of an open file.
type Stream struct {
	f      *os.File
	fd     int
	r      *bufio.Reader
	pos    int64
	closed bool
}

// Open opens path read-only and wraps it in a Stream positioned at 0.
func Open(path string) (*Stream, error) {
	return OpenSize(path, DefaultBufferSize)
}

// OpenSize is Open with an explicit buffer size.
func OpenSize(path string, size int) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return newStream(f, 0, size), nil
}

// FromFd wraps an already open descriptor. The Stream takes ownership of fd
// and closes it on Close. The cursor starts at the descriptor's current
// offset.
func FromFd(fd int, name string) (*Stream, error) {
	off, err := Tell(fd)
	if err != nil {
		return nil, fmt.Errorf("fdopen %s: %w", name, err)
	}
	f := os.NewFile(uintptr(fd), name)
	if f == nil {
		return nil, fmt.Errorf("fdopen %s: invalid descriptor %d", name, fd)
	}
	return newStream(f, off, DefaultBufferSize), nil
}

func newStream(f *os.File, pos int64, size int) *Stream {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Stream{
		f:   f,
		fd:  int(f.Fd()),
		r:   bufio.NewReaderSize(f, size),
		pos: pos,
	}
}

// Name returns the name the stream was opened with.
func (s *Stream) Name() string {
	return s.f.Name()
}

// Read reads through the buffer and advances the cursor by the bytes returned.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n, err := s.r.Read(p)
	s.pos += int64(n)
	return n, err
}

// Buffered reports how many read-ahead bytes the stream holds that the
// caller has not consumed yet.
func (s *Stream) Buffered() int {
	return s.r.Buffered()
}

// Tell returns the stream's cursor. It never consults the descriptor, so it
// goes stale when the descriptor is moved behind the stream's back.
func (s *Stream) Tell() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.pos, nil
}

// Seek moves both the cursor and the descriptor and drops the buffer.
// io.SeekCurrent is relative to the cursor, not to the descriptor offset.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		// The end comes from metadata so a rejected seek leaves the
		// descriptor where it was.
		fi, err := s.f.Stat()
		if err != nil {
			return s.pos, fmt.Errorf("seek %s: %w", s.f.Name(), err)
		}
		abs = fi.Size() + offset
	default:
		return s.pos, ErrInvalidWhence
	}
	if abs < 0 {
		return s.pos, ErrNegativePosition
	}
	n, err := s.f.Seek(abs, io.SeekStart)
	if err != nil {
		return s.pos, fmt.Errorf("seek %s: %w", s.f.Name(), err)
	}
	s.r.Reset(s.f)
	s.pos = n
	return n, nil
}

// Flush hands unread read-ahead back to the descriptor, so that the
// descriptor offset equals the cursor again, and empties the buffer.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if n := s.r.Buffered(); n > 0 {
		if _, err := s.f.Seek(-int64(n), io.SeekCurrent); err != nil {
			return fmt.Errorf("flush %s: %w", s.f.Name(), err)
		}
	}
	s.r.Reset(s.f)
	return nil
}

// Fd flushes the stream and returns its descriptor. The descriptor stays
// owned by the stream.
func (s *Stream) Fd() (int, error) {
	if err := s.Flush(); err != nil {
		return -1, err
	}
	return s.fd, nil
}

// Resync drops the buffer and adopts the descriptor's current offset as the
// cursor. Call it after moving the descriptor with SeekFd.
func (s *Stream) Resync() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	off, err := Tell(s.fd)
	if err != nil {
		return s.pos, fmt.Errorf("resync %s: %w", s.f.Name(), err)
	}
	s.r.Reset(s.f)
	s.pos = off
	return off, nil
}

// Close closes the stream and its descriptor. Closing twice returns ErrClosed.
func (s *Stream) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.f.Name(), err)
	}
	return nil
}
