/*
NAME
  reader.go

DESCRIPTION
  reader.go implements the read-side counterpart of Writer: a format-string
  driven parser (spec §4.2 "readf") that consumes bytes directly from a
  byte-stream during header parsing, plus seekf for repositioning mid-parse.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package headerbuf

import (
	"fmt"
	"io"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/endian"
)

// Reader parses header fields directly out of a byte-stream using the same
// format codes as Writer.Writef.
type Reader struct {
	s     *byteio.Stream
	order endian.Order
}

// NewReader returns a Reader over s.
func NewReader(s *byteio.Stream) *Reader { return &Reader{s: s, order: endian.Little} }

// Seekf repositions the underlying stream.
func (r *Reader) Seekf(offset int64, whence int) (int64, error) {
	return r.s.Seek(offset, whence)
}

// Readf consumes fmt from the stream, writing parsed values through the
// pointer arguments supplied for each code:
//
//	e/E   switch endianness for the remainder of this call (no arg)
//	1     *uint8
//	2     *uint16
//	3     *uint32 (low 24 bits)
//	4     *uint32
//	8     *uint64
//	f     *float32
//	d     *float64
//	x     *float64 (10-byte AIFF extended precision, always big-endian)
//	m     *uint32 (4-byte marker, always big-endian)
//	p     *string (length-prefixed Pascal string)
//	b     []byte  (explicit-length blob; len(arg) bytes are read into it)
//	z     int     (skip N bytes)
//
// It returns the number of bytes consumed.
func (r *Reader) Readf(format string, args ...interface{}) (int, error) {
	order := r.order
	ai := 0
	total := 0
	next := func() (interface{}, error) {
		if ai >= len(args) {
			return nil, fmt.Errorf("headerbuf: too few args for format %q", format)
		}
		v := args[ai]
		ai++
		return v, nil
	}
	read := func(n int) ([]byte, error) {
		buf := make([]byte, n)
		m, err := io.ReadFull(toReader(r.s), buf)
		total += m
		if err != nil {
			return buf, err
		}
		return buf, nil
	}
	for _, c := range format {
		switch c {
		case 'e':
			order = endian.Little
		case 'E':
			order = endian.Big
		case '1':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(1)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*uint8); ok {
				*p = b[0]
			}
		case '2':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(2)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*uint16); ok {
				*p = endian.Uint16(b, order)
			}
		case '3':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(3)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*uint32); ok {
				*p = endian.Uint24(b, order)
			}
		case '4':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(4)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*uint32); ok {
				*p = endian.Uint32(b, order)
			}
		case '8':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(8)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*uint64); ok {
				*p = endian.Uint64(b, order)
			}
		case 'f':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(4)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*float32); ok {
				*p = endian.Float32(b, order, false)
			}
		case 'd':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(8)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*float64); ok {
				*p = endian.Float64(b, order, false)
			}
		case 'x':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(10)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*float64); ok {
				*p = endian.Extended80(b)
			}
		case 'm':
			v, err := next()
			if err != nil {
				return total, err
			}
			b, err := read(4)
			if err != nil {
				return total, err
			}
			if p, ok := v.(*uint32); ok {
				*p = endian.Uint32(b, endian.Big)
			}
		case 'p':
			v, err := next()
			if err != nil {
				return total, err
			}
			lb, err := read(1)
			if err != nil {
				return total, err
			}
			sb, err := read(int(lb[0]))
			if err != nil {
				return total, err
			}
			if p, ok := v.(*string); ok {
				*p = string(sb)
			}
		case 'b':
			v, err := next()
			if err != nil {
				return total, err
			}
			dst, _ := v.([]byte)
			b, err := read(len(dst))
			total += 0
			copy(dst, b)
			if err != nil {
				return total, err
			}
		case 'z':
			v, err := next()
			if err != nil {
				return total, err
			}
			n := int(toInt64(v))
			if _, err := read(n); err != nil {
				return total, err
			}
		default:
			return total, fmt.Errorf("headerbuf: unknown format code %q", c)
		}
	}
	return total, nil
}

// streamReader adapts byteio.Stream to io.Reader for io.ReadFull.
type streamReader struct{ s *byteio.Stream }

func (sr streamReader) Read(p []byte) (int, error) { return sr.s.Read(p) }

func toReader(s *byteio.Stream) io.Reader { return streamReader{s: s} }
