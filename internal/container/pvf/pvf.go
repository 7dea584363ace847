/*
NAME
  pvf.go

DESCRIPTION
  pvf.go implements the Portable Voice Format container driver (spec
  §4.4): a text header, "PVF1\n" followed by a single ASCII line
  "<channels> <samplerate> <bitwidth>\n", then raw big-endian PCM data.
  Grounded on original_source/src/pvf.cpp's sscanf-based header.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package pvf implements the Portable Voice Format container driver.
package pvf

import (
	"errors"
	"fmt"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/peak"
)

var (
	ErrNoPVF1    = errors.New("pvf: no PVF1 marker found")
	ErrBadHeader = errors.New("pvf: malformed header line")
)

// Driver implements container.Driver for PVF.
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info container.Info
}

// New returns an unopened PVF driver bound to s.
func New(s *byteio.Stream) *Driver { return &Driver{s: s, idx: chunkindex.New()} }

func (d *Driver) Index() *chunkindex.Index { return d.idx }

func (d *Driver) Open(mode container.Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	if mode == container.Write {
		return d.openWrite(sampleRate, channels, codec)
	}
	return d.openRead()
}

func bitsForCodec(c format.Codec) int {
	switch c {
	case format.CodecPCMS8, format.CodecPCMU8:
		return 8
	case format.CodecPCM32:
		return 32
	default:
		return 16
	}
}

func codecForBits(bits int) format.Codec {
	switch bits {
	case 8:
		return format.CodecPCMS8
	case 32:
		return format.CodecPCM32
	default:
		return format.CodecPCM16
	}
}

func (d *Driver) openRead() (*container.Info, error) {
	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return nil, err
	}
	magic := make([]byte, 5)
	if _, err := d.s.Read(magic); err != nil {
		return nil, err
	}
	if string(magic) != "PVF1\n" {
		return nil, ErrNoPVF1
	}

	line := make([]byte, 0, 32)
	b := make([]byte, 1)
	for {
		n, err := d.s.Read(b)
		if n == 0 || err != nil {
			return nil, ErrBadHeader
		}
		if b[0] == '\n' {
			break
		}
		line = append(line, b[0])
		if len(line) > 64 {
			return nil, ErrBadHeader
		}
	}

	var channels, sampleRate, bitwidth int
	if _, err := fmt.Sscanf(string(line), "%d %d %d", &channels, &sampleRate, &bitwidth); err != nil {
		return nil, ErrBadHeader
	}

	info := container.Info{Seekable: true}
	info.Channels = channels
	info.SampleRate = uint32(sampleRate)
	info.Format = format.NewFormat(format.ContainerPVF, codecForBits(bitwidth), format.EndianBig)
	info.DataOffset, _ = d.s.Tell()
	info.BlockAlign = bitwidth / 8 * channels
	fileLen, _ := d.s.GetLength()
	info.DataLength = fileLen - info.DataOffset
	if info.BlockAlign > 0 {
		info.Frames = info.DataLength / int64(info.BlockAlign)
	}
	d.info = info
	return &d.info, nil
}

func (d *Driver) openWrite(sampleRate uint32, channels int, codec format.Codec) (*container.Info, error) {
	bits := bitsForCodec(codec)
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerPVF, codec, format.EndianBig),
		SampleRate: sampleRate,
		Channels:   channels,
		BlockAlign: bits / 8 * channels,
		Seekable:   true,
	}
	if err := d.WriteHeader(false, 0); err != nil {
		return nil, err
	}
	return &d.info, nil
}

// WriteHeader re-emits the "PVF1\n<channels> <samplerate> <bitwidth>\n"
// text header. The header's length varies with field width; this driver
// records the new header length as DataOffset without comparing it to
// the old one or moving the data. The fields it writes do not change
// after open, so a rewrite reproduces the same length.
func (d *Driver) WriteHeader(finalize bool, frames int64) error {
	bits := bitsForCodec(d.info.Format.Codec())
	header := fmt.Sprintf("PVF1\n%d %d %d\n", d.info.Channels, d.info.SampleRate, bits)

	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return err
	}
	if _, err := d.s.Write([]byte(header)); err != nil {
		return err
	}
	d.info.DataOffset = int64(len(header))
	if finalize {
		fileLen, err := d.s.GetLength()
		if err != nil {
			return err
		}
		d.info.DataLength = fileLen - d.info.DataOffset
		if d.info.BlockAlign > 0 {
			d.info.Frames = d.info.DataLength / int64(d.info.BlockAlign)
		}
	}
	return nil
}

func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
