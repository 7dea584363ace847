/*
NAME
  raw.go

DESCRIPTION
  raw.go implements the headerless raw container driver (spec §4.4): data
  begins at byte 0 and runs to EOF, with sample rate/channels/codec/endian
  supplied entirely by the caller since nothing in the file states them.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package raw implements the headerless raw-PCM container driver.
package raw

import (
	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/peak"
)

func bitsForCodec(c format.Codec) int {
	switch c {
	case format.CodecPCMS8, format.CodecPCMU8, format.CodecULaw, format.CodecALaw:
		return 8
	case format.CodecPCM24:
		return 24
	case format.CodecPCM32, format.CodecFloat:
		return 32
	case format.CodecDouble:
		return 64
	default:
		return 16
	}
}

// Driver implements container.Driver for headerless raw PCM.
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info container.Info
}

// New returns an unopened raw driver bound to s.
func New(s *byteio.Stream) *Driver { return &Driver{s: s, idx: chunkindex.New()} }

func (d *Driver) Index() *chunkindex.Index { return d.idx }

func (d *Driver) Open(mode container.Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	bits := bitsForCodec(codec)
	if order == format.EndianFile {
		order = format.EndianLittle
	}
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerRaw, codec, order),
		SampleRate: sampleRate,
		Channels:   channels,
		DataOffset: 0,
		BlockAlign: bits / 8 * channels,
		Seekable:   true,
	}
	if mode != container.Write {
		fileLen, err := d.s.GetLength()
		if err != nil {
			return nil, err
		}
		d.info.DataLength = fileLen
		if d.info.BlockAlign > 0 {
			d.info.Frames = d.info.DataLength / int64(d.info.BlockAlign)
		}
	}
	return &d.info, nil
}

// WriteHeader has nothing to write; raw has no header. At finalize it
// only refreshes the derived frame count from the current file length.
func (d *Driver) WriteHeader(finalize bool, frames int64) error {
	if !finalize {
		return nil
	}
	fileLen, err := d.s.GetLength()
	if err != nil {
		return err
	}
	d.info.DataLength = fileLen
	if d.info.BlockAlign > 0 {
		d.info.Frames = d.info.DataLength / int64(d.info.BlockAlign)
	}
	return nil
}

func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
