/*
NAME
  ulaw.go

DESCRIPTION
  ulaw.go implements the µ-law codec driver (spec §4.5): 8-bit compressed
  samples on disk, 16-bit linear PCM as the codec's native width, via a
  256-entry decode lookup table (ITU-T G.711).

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package ulaw implements the G.711 µ-law codec driver.
package ulaw

import (
	"io"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/peak"
)

const bias = 0x84

// decodeTable is the 256-entry µ-law -> 16-bit linear PCM lookup table,
// built once at init from the standard G.711 algorithm (spec §4.5: "8-bit
// in, 16-bit native out, through a 256-entry lookup table").
var decodeTable [256]int16

func init() {
	for i := 0; i < 256; i++ {
		decodeTable[i] = decodeSample(byte(i))
	}
}

func decodeSample(u byte) int16 {
	u = ^u
	sign := u & 0x80
	exponent := (u >> 4) & 0x07
	mantissa := u & 0x0F
	sample := (int32(mantissa) << 3) + bias
	sample <<= exponent
	sample -= bias
	if sign != 0 {
		sample = -sample
	}
	return int16(sample)
}

func encodeSample(pcm int16) byte {
	sign := byte(0)
	v := int32(pcm)
	if v < 0 {
		sign = 0x80
		v = -v
	}
	if v > 32635 {
		v = 32635
	}
	v += bias
	exponent := byte(7)
	for mask := int32(0x4000); (v&mask) == 0 && exponent > 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte((v >> (uint(exponent) + 3)) & 0x0F)
	return ^(sign | exponent<<4 | mantissa)
}

// Codec implements codec.Driver for 8-bit µ-law over a 16-bit native
// width.
type Codec struct {
	s          *byteio.Stream
	dataOffset int64
	channels   int
	params     codec.Params
	peak       *peak.Tracker

	readCursor, writeCursor int64
}

// New returns a µ-law codec bound to s's data region.
func New(s *byteio.Stream, dataOffset int64, channels int, p codec.Params, tracker *peak.Tracker) *Codec {
	return &Codec{s: s, dataOffset: dataOffset, channels: channels, params: p, peak: tracker}
}

func (c *Codec) bytesPerFrame() int { return c.channels }

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
	buf := make([]byte, nFrames*c.channels)
	n, err := io.ReadFull(streamReader{c.s}, buf)
	got := n / c.channels
	c.readCursor += int64(got)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return buf[:got*c.channels], got, nil
	}
	return buf[:got*c.channels], got, err
}

func (c *Codec) writeRaw(buf []byte) (int, error) {
	if err := c.seekByte(c.writeCursor); err != nil {
		return 0, err
	}
	n, err := c.s.Write(buf)
	c.writeCursor += int64(n / c.channels)
	return n, err
}

func (c *Codec) ReadShort(buf []int16) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		buf[i] = decodeTable[raw[i]]
	}
	return got * c.channels, err
}

func (c *Codec) ReadInt(buf []int32) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		buf[i] = codec.ShortToInt(decodeTable[raw[i]])
	}
	return got * c.channels, err
}

func (c *Codec) ReadFloat(buf []float32) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		buf[i] = codec.ShortToFloat(decodeTable[raw[i]], c.params)
	}
	return got * c.channels, err
}

func (c *Codec) ReadDouble(buf []float64) (int, error) {
	n := len(buf) / c.channels
	raw, got, err := c.readRaw(n)
	for i := 0; i < got*c.channels; i++ {
		buf[i] = codec.ShortToDouble(decodeTable[raw[i]], c.params)
	}
	return got * c.channels, err
}

func (c *Codec) trackPeak(shorts []int16, frame int64) {
	if c.peak == nil {
		return
	}
	f := make([]float64, len(shorts))
	for i, s := range shorts {
		f[i] = float64(s) / 32768.0
	}
	c.peak.Update(f, frame)
}

func (c *Codec) writeShorts(shorts []int16) (int, error) {
	raw := make([]byte, len(shorts))
	for i, s := range shorts {
		raw[i] = encodeSample(s)
	}
	frame := c.writeCursor
	n, err := c.writeRaw(raw)
	c.trackPeak(shorts, frame)
	return n, err
}

func (c *Codec) WriteShort(buf []int16) (int, error) { return c.writeShorts(buf) }

func (c *Codec) WriteInt(buf []int32) (int, error) {
	shorts := make([]int16, len(buf))
	for i, v := range buf {
		shorts[i] = codec.IntToShort(v)
	}
	return c.writeShorts(shorts)
}

func (c *Codec) WriteFloat(buf []float32) (int, error) {
	shorts := make([]int16, len(buf))
	for i, f := range buf {
		shorts[i] = codec.FloatToShort(f, c.params)
	}
	return c.writeShorts(shorts)
}

func (c *Codec) WriteDouble(buf []float64) (int, error) {
	shorts := make([]int16, len(buf))
	for i, f := range buf {
		shorts[i] = codec.DoubleToShort(f, c.params)
	}
	return c.writeShorts(shorts)
}
