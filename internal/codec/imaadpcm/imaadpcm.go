/*
NAME
  imaadpcm.go

DESCRIPTION
  imaadpcm.go implements the WAV-flavoured IMA-ADPCM codec driver (spec
  §4.5): block-aligned decode/encode with a per-channel header (predictor +
  step index) and 4-bit nibble samples produced via the standard
  index/step tables. Directly ports the nibble encode/decode and table
  data from the teacher's codec/adpcm/adpcm.go, generalising its bespoke
  length-prefixed single-channel framing to the spec's block-aligned,
  multi-channel WAV framing (blockalign/samplesperblock carried in the fmt
  chunk).

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package imaadpcm implements the IMA-ADPCM codec driver used by WAV's
// WAVE_FORMAT_IMA_ADPCM.
package imaadpcm

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/endian"
	"github.com/wavecore/sndfile/internal/peak"
)

// indexTable and stepTable are the standard IMA-ADPCM tables, ported
// verbatim from the teacher's codec/adpcm/adpcm.go.
var indexTable = []int16{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var stepTable = []int16{
	7, 8, 9, 10, 11, 12, 13, 14,
	16, 17, 19, 21, 23, 25, 28, 31,
	34, 37, 41, 45, 50, 55, 60, 66,
	73, 80, 88, 97, 107, 118, 130, 143,
	157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658,
	724, 796, 876, 963, 1060, 1166, 1282, 1411,
	1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024,
	3327, 3660, 4026, 4428, 4871, 5358, 5894, 6484,
	7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794,
	32767,
}

func capAdd16(a, b int16) int32 {
	c := int32(a) + int32(b)
	if c < -32768 {
		return -32768
	}
	if c > 32767 {
		return 32767
	}
	return c
}

type chanState struct {
	predictor int16
	index     int16
}

func (s *chanState) decodeNibble(nib byte) int16 {
	step := stepTable[s.index]
	diff := int32(step >> 3)
	if nib&1 != 0 {
		diff += int32(step >> 2)
	}
	if nib&2 != 0 {
		diff += int32(step >> 1)
	}
	if nib&4 != 0 {
		diff += int32(step)
	}
	if nib&8 != 0 {
		diff = -diff
	}
	s.predictor = int16(capAdd16(s.predictor, int16(diff)))
	s.index += indexTable[nib&7]
	if s.index < 0 {
		s.index = 0
	} else if s.index > int16(len(stepTable)-1) {
		s.index = int16(len(stepTable) - 1)
	}
	return s.predictor
}

func (s *chanState) encodeSample(sample int16) byte {
	delta := int32(sample) - int32(s.predictor)
	var nib byte
	if delta < 0 {
		nib = 8
		delta = -delta
	}
	step := int32(stepTable[s.index])
	diff := step >> 3
	mask := byte(4)
	for i := 0; i < 3; i++ {
		if delta >= step {
			nib |= mask
			delta -= step
			diff += step
		}
		mask >>= 1
		step >>= 1
	}
	if nib&8 != 0 {
		diff = -diff
	}
	s.predictor = int16(capAdd16(s.predictor, int16(diff)))
	s.index += indexTable[nib&7]
	if s.index < 0 {
		s.index = 0
	} else if s.index > int16(len(stepTable)-1) {
		s.index = int16(len(stepTable) - 1)
	}
	return nib
}

// Codec implements codec.Driver for block-aligned WAV IMA-ADPCM.
type Codec struct {
	s               *byteio.Stream
	dataOffset      int64
	channels        int
	blockAlign      int
	samplesPerBlock int
	params          codec.Params
	peak            *peak.Tracker

	readCursor, writeCursor int64 // frame cursor

	// partial encode block, flushed on Close.
	pending      []int16
	pendingStart int64
}

// New returns an IMA-ADPCM codec over blocks of blockAlign bytes,
// samplesPerBlock frames each.
func New(s *byteio.Stream, dataOffset int64, channels, blockAlign, samplesPerBlock int, p codec.Params, tracker *peak.Tracker) *Codec {
	return &Codec{s: s, dataOffset: dataOffset, channels: channels, blockAlign: blockAlign, samplesPerBlock: samplesPerBlock, params: p, peak: tracker}
}

func (c *Codec) SeekFrame(frame int64) error {
	c.readCursor, c.writeCursor = frame, frame
	return nil
}

// Close flushes a partial final block, short of samplesPerBlock frames,
// zero-padded to a full block (spec §4.5: "Writers must emit exactly
// blockalign bytes per block").
func (c *Codec) Close() error {
	if len(c.pending) == 0 {
		return nil
	}
	frames := c.pending
	for len(frames) < c.samplesPerBlock*c.channels {
		frames = append(frames, 0)
	}
	return c.encodeBlock(frames)
}

func (c *Codec) blockOffset(blockIdx int64) int64 {
	return c.dataOffset + blockIdx*int64(c.blockAlign)
}

func (c *Codec) decodeBlock(blockIdx int64) ([]int16, error) {
	if _, err := c.s.Seek(c.blockOffset(blockIdx), byteio.WhenceSet); err != nil {
		return nil, err
	}
	buf := make([]byte, c.blockAlign)
	n, err := c.s.Read(buf)
	if n < c.blockAlign {
		// Short I/O is end-of-stream, not an error (spec §7).
		return nil, nil
	}
	_ = err

	states := make([]chanState, c.channels)
	out := make([]int16, 0, c.samplesPerBlock*c.channels)
	off := 0
	for ch := 0; ch < c.channels; ch++ {
		states[ch].predictor = int16(endian.Uint16(buf[off:off+2], endian.Little))
		states[ch].index = int16(buf[off+2])
		off += 4
		out = append(out, states[ch].predictor)
	}
	// Remaining bytes hold nibbles, round-robin per channel, 4-byte
	// groups per channel (8 nibbles = 8 samples per group per channel).
	sampleI := 1 // first sample per channel already emitted via header
	for off < len(buf) && sampleI < c.samplesPerBlock {
		for ch := 0; ch < c.channels && sampleI < c.samplesPerBlock; ch++ {
			for g := 0; g < 4 && off < len(buf) && sampleI < c.samplesPerBlock; g++ {
				b := buf[off]
				off++
				lo := states[ch].decodeNibble(b & 0x0F)
				out = append(out, lo)
				sampleI++
				if sampleI < c.samplesPerBlock {
					hi := states[ch].decodeNibble((b >> 4) & 0x0F)
					out = append(out, hi)
					sampleI++
				}
			}
		}
	}
	return out, nil
}

func (c *Codec) encodeBlock(frames []int16) error {
	buf := make([]byte, c.blockAlign)
	states := make([]chanState, c.channels)
	off := 0
	for ch := 0; ch < c.channels; ch++ {
		states[ch].predictor = frames[ch]
		endian.PutUint16(buf[off:off+2], uint16(states[ch].predictor), endian.Little)
		buf[off+2] = byte(states[ch].index)
		buf[off+3] = 0
		off += 4
	}
	sampleI := 1
	frameIdx := func(ch, i int) int16 { return frames[i*c.channels+ch] }
	for off < len(buf) && sampleI < c.samplesPerBlock {
		for ch := 0; ch < c.channels && sampleI < c.samplesPerBlock; ch++ {
			for g := 0; g < 4 && off < len(buf) && sampleI < c.samplesPerBlock; g++ {
				lo := states[ch].encodeSample(frameIdx(ch, sampleI))
				sampleI++
				var hi byte
				if sampleI < c.samplesPerBlock {
					hi = states[ch].encodeSample(frameIdx(ch, sampleI))
					sampleI++
				}
				buf[off] = lo | hi<<4
				off++
			}
		}
	}
	blockIdx := c.writeCursor / int64(c.samplesPerBlock)
	if _, err := c.s.Seek(c.blockOffset(blockIdx), byteio.WhenceSet); err != nil {
		return err
	}
	_, err := c.s.Write(buf)
	if c.peak != nil {
		f := make([]float64, len(frames))
		for i, v := range frames {
			f[i] = float64(v) / 32768.0
		}
		c.peak.Update(f, c.writeCursor-int64(len(c.pending)/c.channels))
	}
	c.pending = nil
	return err
}

func (c *Codec) ReadShort(buf []int16) (int, error) {
	nFrames := len(buf) / c.channels
	var got int
	for got < nFrames {
		blockIdx := c.readCursor / int64(c.samplesPerBlock)
		within := int(c.readCursor % int64(c.samplesPerBlock))
		frames, err := c.decodeBlock(blockIdx)
		if frames == nil {
			return got * c.channels, err
		}
		avail := len(frames)/c.channels - within
		if avail <= 0 {
			return got * c.channels, nil
		}
		take := nFrames - got
		if take > avail {
			take = avail
		}
		copy(buf[got*c.channels:(got+take)*c.channels], frames[within*c.channels:(within+take)*c.channels])
		got += take
		c.readCursor += int64(take)
	}
	return got * c.channels, nil
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

// WriteShort accumulates frames into the pending block buffer, flushing a
// full block to disk each time samplesPerBlock frames accumulate.
func (c *Codec) WriteShort(buf []int16) (int, error) {
	c.pending = append(c.pending, buf...)
	for len(c.pending) >= c.samplesPerBlock*c.channels {
		block := c.pending[:c.samplesPerBlock*c.channels]
		rest := append([]int16{}, c.pending[c.samplesPerBlock*c.channels:]...)
		if err := c.encodeBlock(block); err != nil {
			return 0, err
		}
		c.writeCursor += int64(c.samplesPerBlock)
		c.pending = rest
	}
	return len(buf), nil
}

func (c *Codec) WriteInt(buf []int32) (int, error) {
	shorts := make([]int16, len(buf))
	for i, v := range buf {
		shorts[i] = codec.IntToShort(v)
	}
	return c.WriteShort(shorts)
}

func (c *Codec) WriteFloat(buf []float32) (int, error) {
	shorts := make([]int16, len(buf))
	for i, f := range buf {
		shorts[i] = codec.FloatToShort(f, c.params)
	}
	return c.WriteShort(shorts)
}

func (c *Codec) WriteDouble(buf []float64) (int, error) {
	shorts := make([]int16, len(buf))
	for i, f := range buf {
		shorts[i] = codec.DoubleToShort(f, c.params)
	}
	return c.WriteShort(shorts)
}
