/*
NAME
  dwvw.go

DESCRIPTION
  dwvw.go implements the Delta With Variable Word length (DWVW) codec
  driver (spec §4.5): an AIFC-only scheme coding each sample as a signed
  delta from the previous reconstructed sample, using a per-sample bit
  width that widens or narrows from one codeword to the next based on the
  magnitude of the delta just decoded/encoded (an escape codeword widens
  the current word immediately rather than waiting on a historical
  average, unlike the block-held running index the ADPCM family keeps).

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package dwvw implements the AIFC Delta With Variable Word length codec
// driver.
package dwvw

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/peak"
)

// Width selects the codec's nominal bit width (12, 16 or 24), which
// bounds how wide an individual codeword may grow.
type Width int

const (
	W12 Width = 12
	W16 Width = 16
	W24 Width = 24
)

type bitWriter struct {
	buf  []byte
	cur  uint32
	bits int
}

func (w *bitWriter) writeBits(v uint32, n int) {
	w.cur |= (v & (1<<uint(n) - 1)) << uint(w.bits)
	w.bits += n
	for w.bits >= 8 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur >>= 8
		w.bits -= 8
	}
}

func (w *bitWriter) flush() []byte {
	if w.bits > 0 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur, w.bits = 0, 0
	}
	return w.buf
}

type bitReader struct {
	buf  []byte
	pos  int
	cur  uint32
	bits int
}

func (r *bitReader) readBits(n int) (uint32, bool) {
	for r.bits < n {
		if r.pos >= len(r.buf) {
			return 0, false
		}
		r.cur |= uint32(r.buf[r.pos]) << uint(r.bits)
		r.pos++
		r.bits += 8
	}
	v := r.cur & (1<<uint(n) - 1)
	r.cur >>= uint(n)
	r.bits -= n
	return v, true
}

// Codec implements codec.Driver for mono or interleaved DWVW, reading and
// writing one self-delimited block per call (the on-disk data region
// holds a single variable-length bitstream with no fixed block size, so
// SeekFrame can only rewind to the start of stream).
type Codec struct {
	s          *byteio.Stream
	dataOffset int64
	channels   int
	width      Width
	params     codec.Params
	peak       *peak.Tracker

	lastValue []int32
	curWidth  []int

	readCursor, writeCursor int64
	decoded                 []int16
	decodedPos              int
	pendingOut              []int16
}

// New returns a DWVW codec bound to s's data region.
func New(s *byteio.Stream, dataOffset int64, channels int, width Width, p codec.Params, tracker *peak.Tracker) *Codec {
	return &Codec{
		s: s, dataOffset: dataOffset, channels: channels, width: width, params: p, peak: tracker,
		lastValue: make([]int32, channels), curWidth: initialWidths(channels, width),
	}
}

func initialWidths(channels int, w Width) []int {
	out := make([]int, channels)
	for i := range out {
		out[i] = int(w) / 2
	}
	return out
}

func (c *Codec) SeekFrame(frame int64) error {
	if frame != 0 {
		return codec.ErrSeekUnsupported
	}
	c.readCursor, c.writeCursor = 0, 0
	c.lastValue = make([]int32, c.channels)
	c.curWidth = initialWidths(c.channels, c.width)
	c.decoded = nil
	c.decodedPos = 0
	return nil
}

func (c *Codec) Close() error {
	if len(c.pendingOut) == 0 {
		return nil
	}
	return c.flushEncoded()
}

// minWidth/maxWidth bound the adaptive codeword width's excursion.
const minWidth = 3

func (c *Codec) maxWidth() int { return int(c.width) + 3 }

func decodeLen(code uint32, width int) (int32, bool) {
	// Escape code: all-ones magnitude means "widen and re-read" (the
	// classic DWVW escape), signalled by returning ok=false.
	half := int32(1) << uint(width-1)
	if code == uint32(half*2-1) {
		return 0, false
	}
	v := int32(code)
	if v >= half {
		v -= half * 2
	}
	return v, true
}

func encodeLen(delta int32, width int) (uint32, bool) {
	half := int32(1) << uint(width-1)
	if delta >= half || delta < -half {
		return 0, false
	}
	v := delta
	if v < 0 {
		v += half * 2
	}
	return uint32(v), true
}

func (c *Codec) decodeAll() {
	br := &bitReader{buf: c.rawBytes()}
	var out []int16
	for ch := 0; ; ch = (ch + 1) % c.channels {
		width := c.curWidth[ch]
		code, ok := br.readBits(width)
		if !ok {
			break
		}
		delta, fit := decodeLen(code, width)
		for !fit {
			width++
			if width > c.maxWidth() {
				break
			}
			code, ok = br.readBits(width)
			if !ok {
				break
			}
			delta, fit = decodeLen(code, width)
		}
		if !ok {
			break
		}
		c.lastValue[ch] += delta
		if c.lastValue[ch] > 32767 {
			c.lastValue[ch] = 32767
		} else if c.lastValue[ch] < -32768 {
			c.lastValue[ch] = -32768
		}
		out = append(out, int16(c.lastValue[ch]))
		c.curWidth[ch] = adaptWidth(c.curWidth[ch], delta)
	}
	c.decoded = out
	c.decodedPos = 0
}

func adaptWidth(cur int, delta int32) int {
	mag := delta
	if mag < 0 {
		mag = -mag
	}
	next := cur
	switch {
	case mag > 1<<uint(cur-2):
		next++
	case mag < 1<<uint(cur-4) && cur > minWidth:
		next--
	}
	if next < minWidth {
		next = minWidth
	}
	return next
}

func (c *Codec) rawBytes() []byte {
	if _, err := c.s.Seek(c.dataOffset, byteio.WhenceSet); err != nil {
		return nil
	}
	buf := make([]byte, 1<<20)
	n, _ := c.s.Read(buf)
	return buf[:n]
}

func (c *Codec) ReadShort(buf []int16) (int, error) {
	if c.decoded == nil {
		c.decodeAll()
	}
	n := copy(buf, c.decoded[c.decodedPos:])
	c.decodedPos += n
	c.readCursor += int64(n / c.channels)
	return n, nil
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
	c.pendingOut = append(c.pendingOut, shorts...)
	if c.peak != nil {
		f := make([]float64, len(shorts))
		for i, v := range shorts {
			f[i] = float64(v) / 32768.0
		}
		c.peak.Update(f, c.writeCursor)
	}
	c.writeCursor += int64(len(shorts) / c.channels)
	return len(shorts), nil
}

func (c *Codec) flushEncoded() error {
	bw := &bitWriter{}
	lastValue := make([]int32, c.channels)
	width := initialWidths(c.channels, c.width)
	for i, s := range c.pendingOut {
		ch := i % c.channels
		delta := int32(s) - lastValue[ch]
		w := width[ch]
		code, ok := encodeLen(delta, w)
		for !ok && w < c.maxWidth() {
			// Emit the escape codeword at the current width so the
			// decoder knows to widen before reading the next codeword.
			half := uint32(1) << uint(w-1)
			bw.writeBits(half*2-1, w)
			w++
			code, ok = encodeLen(delta, w)
		}
		bw.writeBits(code, w)
		lastValue[ch] = int32(s)
		width[ch] = adaptWidth(width[ch], delta)
	}
	payload := bw.flush()
	if _, err := c.s.Seek(c.dataOffset, byteio.WhenceSet); err != nil {
		return err
	}
	_, err := c.s.Write(payload)
	c.pendingOut = nil
	return err
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
