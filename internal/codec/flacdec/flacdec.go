/*
NAME
  flacdec.go

DESCRIPTION
  flacdec.go wires the FLAC codec driver's decode path to
  github.com/mewkiz/flac (spec §4.5): frames are parsed and their
  per-channel subframe samples interleaved into the caller's requested
  sample type. mewkiz/flac is a decode-only library (it exposes no public
  encoder), so the write side reports codec.ErrUnsupportedEncoding; a
  compression-level command (spec §6) is still accepted and stored so a
  caller probing or setting it gets consistent behaviour, it simply has
  no effect without an encode path to apply it to.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package flacdec implements the FLAC codec driver's decode path.
package flacdec

import (
	"io"

	flacfmt "github.com/mewkiz/flac"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/peak"
)

// Codec implements codec.Driver for FLAC decode, backed by mewkiz/flac.
type Codec struct {
	s          *byteio.Stream
	dataOffset int64
	channels   int
	params     codec.Params
	peak       *peak.Tracker

	stream          *flacfmt.Stream
	pending         []int32 // leftover interleaved samples from the last decoded frame
	readCursor      int64
	compressionPct  float64 // spec §6 command: [0.0,1.0], stored only (see package doc)
}

// streamReader adapts byteio.Stream to io.Reader for mewkiz/flac, which
// wants to parse the native FLAC stream structure (marker + metadata
// blocks) starting at dataOffset.
type streamReader struct{ s *byteio.Stream }

func (r streamReader) Read(p []byte) (int, error) { return r.s.Read(p) }

// New opens a decode-only FLAC codec over s starting at dataOffset, which
// must point at the start of the native "fLaC" stream marker.
func New(s *byteio.Stream, dataOffset int64, channels int, p codec.Params, tracker *peak.Tracker) (*Codec, error) {
	if _, err := s.Seek(dataOffset, byteio.WhenceSet); err != nil {
		return nil, err
	}
	st, err := flacfmt.New(streamReader{s})
	if err != nil {
		return nil, err
	}
	return &Codec{s: s, dataOffset: dataOffset, channels: channels, params: p, peak: tracker, stream: st}, nil
}

// SetCompressionLevel stores the spec §6 FLAC compression command value;
// see package doc for why it has no effect without an encoder.
func (c *Codec) SetCompressionLevel(level float64) { c.compressionPct = level }

func (c *Codec) SeekFrame(frame int64) error {
	if frame != 0 {
		return codec.ErrSeekUnsupported
	}
	if _, err := c.s.Seek(c.dataOffset, byteio.WhenceSet); err != nil {
		return err
	}
	st, err := flacfmt.New(streamReader{c.s})
	if err != nil {
		return err
	}
	c.stream = st
	c.pending = nil
	c.readCursor = 0
	return nil
}

func (c *Codec) Close() error {
	if c.stream != nil {
		c.stream.Close()
	}
	return nil
}

func (c *Codec) fillPending() error {
	for len(c.pending) == 0 {
		fr, err := c.stream.ParseNext()
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			return err
		}
		n := len(fr.Subframes[0].Samples)
		interleaved := make([]int32, 0, n*c.channels)
		for i := 0; i < n; i++ {
			for ch := 0; ch < len(fr.Subframes) && ch < c.channels; ch++ {
				interleaved = append(interleaved, fr.Subframes[ch].Samples[i])
			}
		}
		c.pending = interleaved
	}
	return nil
}

func (c *Codec) ReadInt(buf []int32) (int, error) {
	got := 0
	for got < len(buf) {
		if len(c.pending) == 0 {
			if err := c.fillPending(); err == io.EOF {
				return got, nil
			} else if err != nil {
				return got, err
			}
		}
		n := copy(buf[got:], c.pending)
		c.pending = c.pending[n:]
		got += n
	}
	c.readCursor += int64(got / c.channels)
	if c.peak != nil {
		f := make([]float64, got)
		for i := 0; i < got; i++ {
			f[i] = float64(buf[i]) / 2147483648.0
		}
		c.peak.Update(f, c.readCursor-int64(got/c.channels))
	}
	return got, nil
}

func (c *Codec) ReadShort(buf []int16) (int, error) {
	ints := make([]int32, len(buf))
	n, err := c.ReadInt(ints)
	for i := 0; i < n; i++ {
		buf[i] = int16(ints[i] >> 16)
	}
	return n, err
}

func (c *Codec) ReadFloat(buf []float32) (int, error) {
	ints := make([]int32, len(buf))
	n, err := c.ReadInt(ints)
	for i := 0; i < n; i++ {
		buf[i] = codec.FloatFromInt32(ints[i], c.params)
	}
	return n, err
}

func (c *Codec) ReadDouble(buf []float64) (int, error) {
	ints := make([]int32, len(buf))
	n, err := c.ReadInt(ints)
	for i := 0; i < n; i++ {
		buf[i] = float64(codec.FloatFromInt32(ints[i], c.params))
	}
	return n, err
}

func (c *Codec) WriteShort([]int16) (int, error)   { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) WriteInt([]int32) (int, error)     { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) WriteFloat([]float32) (int, error) { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) WriteDouble([]float64) (int, error) { return 0, codec.ErrUnsupportedEncoding }
