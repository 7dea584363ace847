/*
NAME
  alac.go

DESCRIPTION
  alac.go wires the Apple Lossless (ALAC) codec's CAF-only framing
  (magic cookie capture from the CAF 'kuki' chunk, packet table from
  'pakt') without the compressor: no ALAC encode/decode library is
  present in the retrieved dependency set. codec.ErrUnsupportedEncoding
  is returned for every sample read/write; the CAF container driver
  still captures and round-trips the kuki/pakt chunks verbatim via the
  chunk index, so a file carrying ALAC audio keeps its side-chunks
  intact even though this build cannot decode the audio itself.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package alac stubs the Apple Lossless codec driver.
package alac

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

// Codec is a framing-only placeholder.
type Codec struct {
	MagicCookie []byte
}

// New returns an ALAC codec stub, optionally seeded with the CAF 'kuki'
// magic cookie so a caller can still inspect codec configuration.
func New(_ *byteio.Stream, _ int64, magicCookie []byte) *Codec {
	return &Codec{MagicCookie: magicCookie}
}

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
