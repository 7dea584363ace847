/*
NAME
  vorbis.go

DESCRIPTION
  vorbis.go wires the Ogg Vorbis codec driver's presence in the format
  registry without a compressor: no Vorbis decode/encode library is
  present in the retrieved dependency set. codec.ErrUnsupportedEncoding
  is returned for every sample read/write.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package vorbis stubs the Ogg Vorbis codec driver.
package vorbis

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

// Codec is a framing-only placeholder.
type Codec struct{}

// New returns a Vorbis codec stub.
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
