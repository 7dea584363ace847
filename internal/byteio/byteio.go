/*
NAME
  byteio.go

DESCRIPTION
  byteio.go implements the uniform seek/read/write/tell/truncate/sync
  byte-stream the rest of the engine is built on (spec §4.1), over either an
  *os.File or a caller-supplied VirtualIO adapter.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package byteio implements the reference-counted byte-stream abstraction
// used by every container and codec driver, generalising the buffered
// reload pattern of the teacher's byte scanner to full seek/read/write.
package byteio

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// Whence mirrors io.Seeker's three origins, named to match spec §4.1.
const (
	WhenceSet = io.SeekStart
	WhenceCur = io.SeekCurrent
	WhenceEnd = io.SeekEnd
)

// maxIOChunk caps a single read/write syscall; larger requests are split
// into sub-requests per spec §4.1.
const maxIOChunk = 1 << 30 // ~1 GiB

// VirtualIO is the adapter surface a caller may supply in place of a file
// descriptor (spec §6). Its operations replace the default implementation
// wholesale: Stream never calls through to os.File when a VirtualIO is
// bound.
type VirtualIO interface {
	Length() (int64, error)
	SetLength(int64) error
	Seek(offset int64, whence int) (int64, error)
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Tell() (int64, error)
	Flush() error
	IsPipe() bool
}

// Stream is the reference-counted byte-stream handed to container and codec
// drivers. A single underlying file or VirtualIO may be aliased by more
// than one Stream; the file is only closed once every alias is released.
type Stream struct {
	shared *shared
}

type shared struct {
	refs int32

	file *os.File
	vio  VirtualIO

	isPipe    bool
	shadowOff int64 // tracked seek position when the stream is a pipe
}

// NewFile wraps an already-open *os.File as a Stream with an initial
// reference count of 1.
func NewFile(f *os.File) *Stream {
	s := &Stream{shared: &shared{refs: 1, file: f}}
	if fi, err := f.Stat(); err == nil {
		s.shared.isPipe = fi.Mode()&os.ModeNamedPipe != 0
	}
	return s
}

// NewVirtual wraps a caller-supplied VirtualIO as a Stream with an initial
// reference count of 1.
func NewVirtual(v VirtualIO) *Stream {
	return &Stream{shared: &shared{refs: 1, vio: v, isPipe: v.IsPipe()}}
}

// Ref increments the reference count and returns a new Stream value
// aliasing the same underlying byte-stream.
func (s *Stream) Ref() *Stream {
	s.shared.refs++
	return &Stream{shared: s.shared}
}

// Unref decrements the reference count, closing the underlying file once
// the count reaches zero. Safe to call multiple times per alias only once.
func (s *Stream) Unref() error {
	s.shared.refs--
	if s.shared.refs > 0 {
		return nil
	}
	if s.shared.file != nil {
		return s.shared.file.Close()
	}
	return nil
}

// IsPipe reports whether the underlying stream is a non-seekable pipe.
func (s *Stream) IsPipe() bool { return s.shared.isPipe }

// GetLength returns the total length of the underlying stream in bytes.
func (s *Stream) GetLength() (int64, error) {
	if s.shared.vio != nil {
		return s.shared.vio.Length()
	}
	fi, err := s.shared.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// SetLength truncates or extends the underlying stream to n bytes.
func (s *Stream) SetLength(n int64) error {
	if s.shared.vio != nil {
		return s.shared.vio.SetLength(n)
	}
	return s.shared.file.Truncate(n)
}

// Seek repositions the stream. On a pipe, only a seek to the tracked shadow
// offset is honoured (a no-op); any other target is logged by the caller
// and treated as a no-op here, per spec §4.1's pipe-safe fallback.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.shared.isPipe {
		target := s.pipeTarget(offset, whence)
		if target != s.shared.shadowOff {
			// Not the shadow position: treat as a no-op, matching
			// the teacher's "log and continue" approach to
			// recoverable anomalies (spec §7).
			return s.shared.shadowOff, nil
		}
		return s.shared.shadowOff, nil
	}
	if s.shared.vio != nil {
		return s.shared.vio.Seek(offset, whence)
	}
	return s.shared.file.Seek(offset, whence)
}

func (s *Stream) pipeTarget(offset int64, whence int) int64 {
	switch whence {
	case WhenceCur:
		return s.shared.shadowOff + offset
	case WhenceSet:
		return offset
	default:
		return s.shared.shadowOff
	}
}

// Tell returns the current stream position.
func (s *Stream) Tell() (int64, error) {
	if s.shared.isPipe {
		return s.shared.shadowOff, nil
	}
	if s.shared.vio != nil {
		return s.shared.vio.Tell()
	}
	return s.shared.file.Seek(0, WhenceCur)
}

// Read fills buf, splitting into sub-requests larger than maxIOChunk and
// retrying on an interrupted-by-signal error, per spec §4.1.
func (s *Stream) Read(buf []byte) (int, error) {
	var total int
	for total < len(buf) {
		end := total + maxIOChunk
		if end > len(buf) {
			end = len(buf)
		}
		want := end - total
		n, err := s.readOnce(buf[total:end])
		total += n
		if s.shared.isPipe {
			s.shared.shadowOff += int64(n)
		}
		if err != nil {
			return total, err
		}
		if n < want {
			// Short read: stop here, leave EOF handling to the
			// caller (codec short-I/O tolerance, spec §7).
			break
		}
	}
	return total, nil
}

func (s *Stream) readOnce(buf []byte) (int, error) {
	for {
		var n int
		var err error
		if s.shared.vio != nil {
			n, err = s.shared.vio.Read(buf)
		} else {
			n, err = s.shared.file.Read(buf)
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		return n, err
	}
}

// Write writes all of buf, splitting into sub-requests larger than
// maxIOChunk and retrying on an interrupted-by-signal error.
func (s *Stream) Write(buf []byte) (int, error) {
	var total int
	for total < len(buf) {
		end := total + maxIOChunk
		if end > len(buf) {
			end = len(buf)
		}
		n, err := s.writeOnce(buf[total:end])
		total += n
		if s.shared.isPipe {
			s.shared.shadowOff += int64(n)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Stream) writeOnce(buf []byte) (int, error) {
	for {
		var n int
		var err error
		if s.shared.vio != nil {
			n, err = s.shared.vio.Write(buf)
		} else {
			n, err = s.shared.file.Write(buf)
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		return n, err
	}
}

// Flush flushes any buffered writes to the underlying medium.
func (s *Stream) Flush() error {
	if s.shared.vio != nil {
		return s.shared.vio.Flush()
	}
	return s.shared.file.Sync()
}
