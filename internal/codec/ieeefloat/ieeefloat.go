/*
NAME
  ieeefloat.go

DESCRIPTION
  ieeefloat.go implements the float32/float64 codec driver (spec §4.5):
  direct memcpy-with-endian-swap between the caller's sample buffers and
  IEEE-754 single/double precision samples on disk, including the
  IEEE-replace decomposition fallback for non-IEEE hosts.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package ieeefloat implements the native float32/float64 codec driver.
package ieeefloat

import (
	"io"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/endian"
	"github.com/wavecore/sndfile/internal/peak"
)

// Width selects whether the on-disk native sample is 32 or 64 bits.
type Width int

const (
	Single Width = 4
	Double Width = 8
)

// Codec implements codec.Driver for IEEE float32/float64 linear samples.
type Codec struct {
	s          *byteio.Stream
	dataOffset int64
	channels   int
	width      Width
	order      endian.Order
	params     codec.Params
	peak       *peak.Tracker
	ieeeReplace bool

	readCursor, writeCursor int64
}

// New returns a float codec bound to s's data region.
func New(s *byteio.Stream, dataOffset int64, channels int, width Width, order endian.Order, p codec.Params, tracker *peak.Tracker) *Codec {
	return &Codec{s: s, dataOffset: dataOffset, channels: channels, width: width, order: order, params: p, peak: tracker}
}

func (c *Codec) bytesPerFrame() int { return int(c.width) * c.channels }

func (c *Codec) seekByte(cursor int64) error {
	_, err := c.s.Seek(c.dataOffset+cursor*int64(c.bytesPerFrame()), byteio.WhenceSet)
	return err
}

func (c *Codec) SeekFrame(frame int64) error {
	c.readCursor, c.writeCursor = frame, frame
	return nil
}

func (c *Codec) Close() error { return nil }

type streamReader struct{ s *byteio.Stream }

func (r streamReader) Read(p []byte) (int, error) { return r.s.Read(p) }

func (c *Codec) readRaw(nFrames int) ([]byte, int, error) {
	if err := c.seekByte(c.readCursor); err != nil {
		return nil, 0, err
	}
	bpf := c.bytesPerFrame()
	buf := make([]byte, nFrames*bpf)
	n, err := io.ReadFull(streamReader{c.s}, buf)
	got := n / bpf
	c.readCursor += int64(got)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return buf[:got*bpf], got, nil
	}
	return buf[:got*bpf], got, err
}

func (c *Codec) writeRaw(buf []byte) (int, error) {
	if err := c.seekByte(c.writeCursor); err != nil {
		return 0, err
	}
	n, err := c.s.Write(buf)
	bpf := c.bytesPerFrame()
	c.writeCursor += int64(n / bpf)
	return n, err
}

func (c *Codec) readNative(b []byte) float64 {
	if c.width == Single {
		return float64(endian.Float32(b, c.order, c.ieeeReplace))
	}
	return endian.Float64(b, c.order, c.ieeeReplace)
}

func (c *Codec) putNative(v float64, dst []byte) {
	if c.width == Single {
		endian.PutFloat32(dst, float32(v), c.order, c.ieeeReplace)
	} else {
		endian.PutFloat64(dst, v, c.order, c.ieeeReplace)
	}
}

func (c *Codec) toSample(v float64) float64 {
	if c.params.Normalize {
		return v
	}
	return v * fullScale
}

func (c *Codec) fromSample(v float64) float64 {
	if c.params.Normalize {
		return v
	}
	return v / fullScale
}

const fullScale = 2147483648.0

func (c *Codec) ReadShort(buf []int16) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		v := c.fromSample(c.readNative(raw[i*int(c.width):(i+1)*int(c.width)])) * 32768.0
		buf[i] = clampShort(v, c.params.Clip)
	}
	return got * c.channels, err
}

func (c *Codec) ReadInt(buf []int32) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		v := c.fromSample(c.readNative(raw[i*int(c.width):(i+1)*int(c.width)])) * fullScale
		buf[i] = clampInt(v, c.params.Clip)
	}
	return got * c.channels, err
}

func (c *Codec) ReadFloat(buf []float32) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		buf[i] = float32(c.fromSample(c.readNative(raw[i*int(c.width):(i+1)*int(c.width)])))
	}
	return got * c.channels, err
}

func (c *Codec) ReadDouble(buf []float64) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		buf[i] = c.fromSample(c.readNative(raw[i*int(c.width):(i+1)*int(c.width)]))
	}
	return got * c.channels, err
}

func (c *Codec) writeSamples(native []float64) (int, error) {
	bpf := int(c.width)
	raw := make([]byte, len(native)*bpf)
	for i, v := range native {
		c.putNative(v, raw[i*bpf:(i+1)*bpf])
	}
	frame := c.writeCursor
	n, err := c.writeRaw(raw)
	if c.peak != nil {
		c.peak.Update(native, frame)
	}
	return n / bpf, err
}

func (c *Codec) WriteShort(buf []int16) (int, error) {
	native := make([]float64, len(buf))
	for i, s := range buf {
		native[i] = c.toSample(float64(s) / 32768.0)
	}
	return c.writeSamples(native)
}

func (c *Codec) WriteInt(buf []int32) (int, error) {
	native := make([]float64, len(buf))
	for i, v := range buf {
		native[i] = c.toSample(float64(v) / fullScale)
	}
	return c.writeSamples(native)
}

func (c *Codec) WriteFloat(buf []float32) (int, error) {
	native := make([]float64, len(buf))
	for i, f := range buf {
		native[i] = c.toSample(float64(f))
	}
	return c.writeSamples(native)
}

func (c *Codec) WriteDouble(buf []float64) (int, error) {
	native := make([]float64, len(buf))
	for i, f := range buf {
		native[i] = c.toSample(f)
	}
	return c.writeSamples(native)
}

func clampShort(v float64, clip bool) int16 {
	if clip {
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
	}
	return int16(v)
}

func clampInt(v float64, clip bool) int32 {
	if clip {
		if v > 2147483647 {
			v = 2147483647
		} else if v < -2147483648 {
			v = -2147483648
		}
	}
	return int32(v)
}
