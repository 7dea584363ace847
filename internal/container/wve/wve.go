/*
NAME
  wve.go

DESCRIPTION
  wve.go implements the Psion WVE container driver (spec §4.4): a fixed
  32-byte big-endian header (markers "ALaw"/"Soun"/"dFil", a version
  word, the sample rate and a frame count, zero-padded to 32 bytes),
  followed by headerless A-law sample data. Grounded on original_source/src/wve.cpp's marker table and
  PSION_DATAOFFSET.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package wve implements the Psion WVE container driver.
package wve

import (
	"errors"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/headerbuf"
	"github.com/wavecore/sndfile/internal/peak"
)

const (
	headerLength = 32
	psionVersion = 3856
)

var ErrBadMagic = errors.New("wve: bad Psion marker sequence")

func marker(s string) uint32 {
	b := []byte(s)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Driver implements container.Driver for Psion WVE (always mono A-law).
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info container.Info
}

// New returns an unopened WVE driver bound to s.
func New(s *byteio.Stream) *Driver { return &Driver{s: s, idx: chunkindex.New()} }

func (d *Driver) Index() *chunkindex.Index { return d.idx }

func (d *Driver) Open(mode container.Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	if mode == container.Write {
		return d.openWrite(sampleRate)
	}
	return d.openRead()
}

func (d *Driver) openRead() (*container.Info, error) {
	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return nil, err
	}
	rdr := headerbuf.NewReader(d.s)

	var alaw, soun, dfil uint32
	rdr.Readf("Em", &alaw)
	rdr.Readf("Em", &soun)
	if alaw != marker("ALaw") || soun != marker("Soun") {
		return nil, ErrBadMagic
	}
	rdr.Readf("Em", &dfil)

	var version uint16
	var srate, frames uint32
	rdr.Readf("E2", &version)
	rdr.Readf("E4", &srate)
	rdr.Readf("E4", &frames)
	d.s.Seek(headerLength-22, byteio.WhenceCur)

	info := container.Info{Channels: 1, Seekable: true}
	info.SampleRate = srate
	if info.SampleRate == 0 {
		info.SampleRate = 8000
	}
	info.Format = format.NewFormat(format.ContainerWVE, format.CodecALaw, format.EndianBig)
	info.DataOffset = headerLength
	fileLen, _ := d.s.GetLength()
	info.DataLength = fileLen - headerLength
	info.BlockAlign = 1
	info.Frames = info.DataLength
	d.info = info
	return &d.info, nil
}

func (d *Driver) openWrite(sampleRate uint32) (*container.Info, error) {
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerWVE, format.CodecALaw, format.EndianBig),
		SampleRate: sampleRate,
		Channels:   1,
		BlockAlign: 1,
		Seekable:   true,
	}
	if err := d.WriteHeader(false, 0); err != nil {
		return nil, err
	}
	return &d.info, nil
}

func (d *Driver) WriteHeader(finalize bool, frames int64) error {
	w := headerbuf.NewWriter()

	frameCount := frames
	if finalize {
		fileLen, err := d.s.GetLength()
		if err != nil {
			return err
		}
		frameCount = fileLen - headerLength
	}

	w.Writef("Em", "ALaw")
	w.Writef("Em", "Soun")
	w.Writef("Em", "dFil")
	w.Writef("E2", uint16(psionVersion))
	w.Writef("E4", d.info.SampleRate)
	w.Writef("E4", uint32(frameCount))
	w.Writef("z", headerLength-22)

	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return err
	}
	if _, err := d.s.Write(w.Bytes()); err != nil {
		return err
	}
	d.info.DataOffset = headerLength
	if finalize {
		d.info.Frames = frameCount
		d.info.DataLength = frameCount
	}
	return nil
}

func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
