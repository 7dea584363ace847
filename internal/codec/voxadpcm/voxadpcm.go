/*
NAME
  voxadpcm.go

DESCRIPTION
  voxadpcm.go implements the OKI/Dialogic VOX ADPCM codec driver (spec
  §4.5): a headerless, mono-only, 4-bit ADPCM coding 12-bit linear samples,
  widened to 16-bit on decode by a left shift of 4. Grounded on
  original_source/src/vox_adpcm.cpp, which documents the format as "OKI /
  Dialogic ADPCM ... converts from 12 bit linear sample data to 4 bit
  ADPCM" and resets its adaptive state at the start of every file (no
  per-block header, unlike IMA/MS ADPCM's block-aligned framing).

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package voxadpcm implements the headerless OKI/Dialogic VOX ADPCM codec
// driver used by the .vox raw container.
package voxadpcm

import (
	"io"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/peak"
)

// stepTable holds the 49-entry OKI step size table (entries 8 through 56
// of the standard IMA step table, as OKI ADPCM only ever reaches index 48).
var stepTable = []int32{
	16, 17, 19, 21, 23, 25, 28, 31,
	34, 37, 41, 45, 50, 55, 60, 66,
	73, 80, 88, 97, 107, 118, 130, 143,
	157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658,
	724, 796, 876, 963, 1060, 1166, 1282, 1411, 1552,
}

var indexTable = []int32{-1, -1, -1, -1, 2, 4, 6, 8}

func clamp12(v int32) int32 {
	if v > 2047 {
		return 2047
	}
	if v < -2048 {
		return -2048
	}
	return v
}

// Codec implements codec.Driver for headerless, mono VOX ADPCM.
type Codec struct {
	s          *byteio.Stream
	dataOffset int64
	params     codec.Params
	peak       *peak.Tracker

	predictor int32
	index     int32

	readCursor, writeCursor int64
	pendingNibble           bool
	pendingByte             byte
}

// New returns a VOX-ADPCM codec bound to s's data region. VOX files are
// always single-channel (spec §4.5, original_source vox_adpcm.cpp
// SFE_CHANNEL_COUNT check on write).
func New(s *byteio.Stream, dataOffset int64, p codec.Params, tracker *peak.Tracker) *Codec {
	return &Codec{s: s, dataOffset: dataOffset, params: p, peak: tracker}
}

func (c *Codec) SeekFrame(frame int64) error {
	// The format is not seekable in general (the original marks
	// sf.seekable = false); a seek to zero resets adaptive state, matching
	// re-opening a fresh stream.
	c.predictor, c.index = 0, 0
	c.readCursor, c.writeCursor = 0, 0
	c.pendingNibble = false
	if frame != 0 {
		return codec.ErrSeekUnsupported
	}
	_, err := c.s.Seek(c.dataOffset, byteio.WhenceSet)
	return err
}

func (c *Codec) Close() error {
	if c.pendingNibble {
		_, err := c.s.Write([]byte{c.pendingByte})
		c.pendingNibble = false
		return err
	}
	return nil
}

func (c *Codec) decodeNibble(nib byte) int16 {
	step := stepTable[c.index]
	sign := nib & 0x08
	mag := int32(nib & 0x07)
	diff := (2*mag + 1) * step >> 3
	if sign != 0 {
		diff = -diff
	}
	c.predictor = clamp12(c.predictor + diff)
	c.index += indexTable[nib&0x07]
	if c.index < 0 {
		c.index = 0
	} else if c.index > int32(len(stepTable)-1) {
		c.index = int32(len(stepTable) - 1)
	}
	return int16(c.predictor << 4)
}

func (c *Codec) encodeSample(sample16 int16) byte {
	target := clamp12(int32(sample16) >> 4)
	step := stepTable[c.index]
	delta := target - c.predictor
	var nib byte
	if delta < 0 {
		nib = 0x08
		delta = -delta
	}
	mag := (delta << 3) / step
	if mag > 7 {
		mag = 7
	}
	nib |= byte(mag)
	diff := (2*int32(mag) + 1) * step >> 3
	if nib&0x08 != 0 {
		diff = -diff
	}
	c.predictor = clamp12(c.predictor + diff)
	c.index += indexTable[nib&0x07]
	if c.index < 0 {
		c.index = 0
	} else if c.index > int32(len(stepTable)-1) {
		c.index = int32(len(stepTable) - 1)
	}
	return nib
}

func (c *Codec) ReadShort(buf []int16) (int, error) {
	got := 0
	for got < len(buf) {
		var b [1]byte
		n, err := c.s.Read(b[:])
		if n == 0 {
			return got, err
		}
		lo := c.decodeNibble(b[0] & 0x0F)
		buf[got] = lo
		got++
		c.readCursor++
		if got >= len(buf) {
			break
		}
		hi := c.decodeNibble((b[0] >> 4) & 0x0F)
		buf[got] = hi
		got++
		c.readCursor++
	}
	return got, nil
}

func (c *Codec) ReadInt(buf []int32) (int, error) {
	shorts := make([]int16, len(buf))
	n, err := c.ReadShort(shorts)
	for i := 0; i < n; i++ {
		buf[i] = codec.ShortToInt(shorts[i])
	}
	return n, err
}

func (c *Codec) ReadFloat(buf []float32) (int, error) {
	shorts := make([]int16, len(buf))
	n, err := c.ReadShort(shorts)
	for i := 0; i < n; i++ {
		buf[i] = codec.ShortToFloat(shorts[i], c.params)
	}
	return n, err
}

func (c *Codec) ReadDouble(buf []float64) (int, error) {
	shorts := make([]int16, len(buf))
	n, err := c.ReadShort(shorts)
	for i := 0; i < n; i++ {
		buf[i] = codec.ShortToDouble(shorts[i], c.params)
	}
	return n, err
}

func (c *Codec) writeShorts(shorts []int16) (int, error) {
	for _, sample := range shorts {
		nib := c.encodeSample(sample)
		if !c.pendingNibble {
			c.pendingByte = nib
			c.pendingNibble = true
		} else {
			c.pendingByte |= nib << 4
			if _, err := c.s.Write([]byte{c.pendingByte}); err != nil {
				return 0, err
			}
			c.pendingNibble = false
		}
		c.writeCursor++
	}
	if c.peak != nil {
		f := make([]float64, len(shorts))
		for i, v := range shorts {
			f[i] = float64(v) / 32768.0
		}
		c.peak.Update(f, c.writeCursor-int64(len(shorts)))
	}
	return len(shorts), nil
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

var _ io.Closer = (*Codec)(nil)
