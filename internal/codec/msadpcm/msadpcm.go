/*
NAME
  msadpcm.go

DESCRIPTION
  msadpcm.go implements the Microsoft ADPCM codec driver (spec §4.5):
  block-aligned decode/encode with a per-channel header of a coefficient
  index and two seed samples, and an adaptive delta shared with the
  teacher's IMA-flavoured ADPCM index/step machinery (codec/adpcm/adpcm.go)
  but driven by the fixed coefficient-pair table and delta adaptation
  ratios fixed by the Microsoft ADPCM format rather than the IMA index
  table.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package msadpcm implements the WAVE_FORMAT_ADPCM (Microsoft ADPCM)
// codec driver.
package msadpcm

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/endian"
	"github.com/wavecore/sndfile/internal/peak"
)

// coeff1/coeff2 are the standard 7 Microsoft ADPCM coefficient pairs.
var coeff1 = []int32{256, 512, 0, 192, 240, 460, 392}
var coeff2 = []int32{0, -256, 0, 64, 0, -208, -232}

const adaptTable0 = 230 // smallest adaptation ratio in adaptTable

var adaptTable = []int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

func clampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

type chanState struct {
	coeffIdx byte
	delta    int32
	sample1  int16
	sample2  int16
}

func (s *chanState) predict() int32 {
	return (int32(s.sample1)*coeff1[s.coeffIdx] + int32(s.sample2)*coeff2[s.coeffIdx]) >> 8
}

func (s *chanState) decodeNibble(nib byte) int16 {
	signed := int8(nib << 4) >> 4 // sign-extend low nibble
	pred := s.predict() + int32(signed)*s.delta
	out := clampInt16(pred)
	s.delta = (s.delta * adaptTable[nib&0x0F]) >> 8
	if s.delta < 16 {
		s.delta = 16
	}
	s.sample2 = s.sample1
	s.sample1 = out
	return out
}

func (s *chanState) encodeSample(target int16) byte {
	pred := s.predict()
	errv := int32(target) - pred
	var nib int32
	if s.delta != 0 {
		nib = errv / s.delta
	}
	if nib > 7 {
		nib = 7
	} else if nib < -8 {
		nib = -8
	}
	n := byte(nib) & 0x0F
	out := clampInt16(pred + nib*s.delta)
	s.delta = (s.delta * adaptTable[n]) >> 8
	if s.delta < 16 {
		s.delta = 16
	}
	s.sample2 = s.sample1
	s.sample1 = out
	return n
}

// Codec implements codec.Driver for block-aligned Microsoft ADPCM.
type Codec struct {
	s               *byteio.Stream
	dataOffset      int64
	channels        int
	blockAlign      int
	samplesPerBlock int
	params          codec.Params
	peak            *peak.Tracker

	readCursor, writeCursor int64
	pending                 []int16
	coeffIdx                []byte // per-channel coefficient index written to each block header; zero (the first pair) as set by New
}

// New returns a Microsoft ADPCM codec over blockAlign-byte blocks of
// samplesPerBlock frames each.
func New(s *byteio.Stream, dataOffset int64, channels, blockAlign, samplesPerBlock int, p codec.Params, tracker *peak.Tracker) *Codec {
	idx := make([]byte, channels)
	return &Codec{s: s, dataOffset: dataOffset, channels: channels, blockAlign: blockAlign, samplesPerBlock: samplesPerBlock, params: p, peak: tracker, coeffIdx: idx}
}

func (c *Codec) SeekFrame(frame int64) error {
	c.readCursor, c.writeCursor = frame, frame
	return nil
}

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

// headerLen is the per-channel fixed header: coeff index (1) + delta (2) +
// sample1 (2) + sample2 (2).
const headerLen = 7

func (c *Codec) decodeBlock(blockIdx int64) ([]int16, error) {
	if _, err := c.s.Seek(c.blockOffset(blockIdx), byteio.WhenceSet); err != nil {
		return nil, err
	}
	buf := make([]byte, c.blockAlign)
	n, err := c.s.Read(buf)
	if n < c.blockAlign {
		return nil, nil
	}
	_ = err

	states := make([]chanState, c.channels)
	off := 0
	for ch := 0; ch < c.channels; ch++ {
		states[ch].coeffIdx = buf[off] % byte(len(coeff1))
		off++
	}
	for ch := 0; ch < c.channels; ch++ {
		states[ch].delta = int32(int16(endian.Uint16(buf[off:off+2], endian.Little)))
		off += 2
	}
	for ch := 0; ch < c.channels; ch++ {
		states[ch].sample1 = int16(endian.Uint16(buf[off:off+2], endian.Little))
		off += 2
	}
	for ch := 0; ch < c.channels; ch++ {
		states[ch].sample2 = int16(endian.Uint16(buf[off:off+2], endian.Little))
		off += 2
	}

	out := make([]int16, 0, c.samplesPerBlock*c.channels)
	for ch := 0; ch < c.channels; ch++ {
		out = append(out, states[ch].sample2)
	}
	for ch := 0; ch < c.channels; ch++ {
		out = append(out, states[ch].sample1)
	}
	sampleI := 2
	for off < len(buf) && sampleI < c.samplesPerBlock {
		for ch := 0; ch < c.channels && sampleI < c.samplesPerBlock; ch++ {
			if off >= len(buf) {
				break
			}
			b := buf[off]
			off++
			out = append(out, states[ch].decodeNibble((b>>4)&0x0F))
			sampleI++
			if sampleI < c.samplesPerBlock {
				out = append(out, states[ch].decodeNibble(b&0x0F))
				sampleI++
			}
		}
	}
	return out, nil
}

func (c *Codec) encodeBlock(frames []int16) error {
	buf := make([]byte, c.blockAlign)
	states := make([]chanState, c.channels)
	for ch := 0; ch < c.channels; ch++ {
		states[ch].coeffIdx = c.coeffIdx[ch]
		states[ch].delta = 16
		states[ch].sample2 = frames[ch]
		states[ch].sample1 = frames[c.channels+ch]
	}
	off := 0
	for ch := 0; ch < c.channels; ch++ {
		buf[off] = states[ch].coeffIdx
		off++
	}
	for ch := 0; ch < c.channels; ch++ {
		endian.PutUint16(buf[off:off+2], uint16(states[ch].delta), endian.Little)
		off += 2
	}
	for ch := 0; ch < c.channels; ch++ {
		endian.PutUint16(buf[off:off+2], uint16(states[ch].sample1), endian.Little)
		off += 2
	}
	for ch := 0; ch < c.channels; ch++ {
		endian.PutUint16(buf[off:off+2], uint16(states[ch].sample2), endian.Little)
		off += 2
	}

	sampleI := 2
	frameAt := func(ch, i int) int16 { return frames[i*c.channels+ch] }
	for off < len(buf) && sampleI < c.samplesPerBlock {
		for ch := 0; ch < c.channels && sampleI < c.samplesPerBlock; ch++ {
			if off >= len(buf) {
				break
			}
			hi := states[ch].encodeSample(frameAt(ch, sampleI))
			sampleI++
			var lo byte
			if sampleI < c.samplesPerBlock {
				lo = states[ch].encodeSample(frameAt(ch, sampleI))
				sampleI++
			}
			buf[off] = hi<<4 | lo
			off++
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
		c.peak.Update(f, blockIdx*int64(c.samplesPerBlock))
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
