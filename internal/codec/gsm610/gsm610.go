/*
NAME
  gsm610.go

DESCRIPTION
  gsm610.go wires the GSM 06.10 full-rate speech codec's block framing
  (33 bytes -> 160 samples for WAV's WAVE_FORMAT_GSM610, 65 bytes -> 320
  samples for the AU/double-frame variant) without the compressor itself:
  no GSM 06.10 library is present in the retrieved dependency set, and
  the codec's RPE-LTP analysis is the same kind of "library the core
  calls" compressor math the format engine does not reimplement for
  FLAC/Vorbis/ALAC/G.72x either.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package gsm610 stubs the GSM 06.10 codec driver.
package gsm610

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

const (
	FrameBytes       = 33
	FrameSamples     = 160
	DoubleFrameBytes = 65
)

// Codec is a framing-only placeholder.
type Codec struct{}

// New returns a GSM 06.10 codec stub.
func New(_ *byteio.Stream, _ int64) *Codec { return &Codec{} }

func (c *Codec) SeekFrame(int64) error { return nil }
func (c *Codec) Close() error          { return nil }

func (c *Codec) ReadShort([]int16) (int, error)    { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) ReadInt([]int32) (int, error)      { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) ReadFloat([]float32) (int, error)  { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) ReadDouble([]float64) (int, error) { return 0, codec.ErrUnsupportedEncoding }

func (c *Codec) WriteShort([]int16) (int, error)    { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) WriteInt([]int32) (int, error)      { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) WriteFloat([]float32) (int, error)  { return 0, codec.ErrUnsupportedEncoding }
func (c *Codec) WriteDouble([]float64) (int, error) { return 0, codec.ErrUnsupportedEncoding }
