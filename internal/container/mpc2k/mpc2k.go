/*
NAME
  mpc2k.go

DESCRIPTION
  mpc2k.go implements the Akai MPC2000 sample container driver (spec
  §4.4): a fixed 42-byte little-endian header (2 magic bytes 1,4; a
  17-character sample name; level/tune/channels bytes; four uint32 loop
  fields; loop mode and beat-count bytes; a uint16 sample rate), followed
  by non-compressed interleaved 16-bit PCM data. Grounded on
  original_source/src/mpc2k.cpp's documented field layout.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package mpc2k implements the Akai MPC2000 sample container driver.
package mpc2k

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
	headerLength = 42
	nameLength   = 17
)

var ErrNoMarker = errors.New("mpc2k: bad magic bytes")

// Driver implements container.Driver for Akai MPC2000 samples (always
// 16-bit PCM, mono or stereo, little-endian).
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info container.Info
}

// New returns an unopened MPC2000 driver bound to s.
func New(s *byteio.Stream) *Driver { return &Driver{s: s, idx: chunkindex.New()} }

func (d *Driver) Index() *chunkindex.Index { return d.idx }

func (d *Driver) Open(mode container.Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	if mode == container.Write {
		return d.openWrite(sampleRate, channels)
	}
	return d.openRead()
}

func (d *Driver) openRead() (*container.Info, error) {
	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return nil, err
	}
	rdr := headerbuf.NewReader(d.s)

	var b1, b2 uint8
	rdr.Readf("1", &b1)
	rdr.Readf("1", &b2)
	if b1 != 1 || b2 != 4 {
		return nil, ErrNoMarker
	}
	name := make([]byte, nameLength)
	rdr.Readf("b", name)

	var level, tune, channels uint8
	rdr.Readf("1", &level)
	rdr.Readf("1", &tune)
	rdr.Readf("1", &channels)

	var sampleStart, loopEnd, sampleFrames, loopLength uint32
	rdr.Readf("e4", &sampleStart)
	rdr.Readf("e4", &loopEnd)
	rdr.Readf("e4", &sampleFrames)
	rdr.Readf("e4", &loopLength)

	var loopMode, numBeats uint8
	rdr.Readf("1", &loopMode)
	rdr.Readf("1", &numBeats)

	var sampleRate uint16
	rdr.Readf("e2", &sampleRate)

	info := container.Info{Seekable: true}
	info.Channels = 1
	if channels == 1 {
		info.Channels = 2
	}
	info.SampleRate = uint32(sampleRate)
	info.Format = format.NewFormat(format.ContainerMPC2K, format.CodecPCM16, format.EndianLittle)
	info.DataOffset = headerLength
	info.BlockAlign = 2 * info.Channels
	fileLen, _ := d.s.GetLength()
	info.DataLength = fileLen - headerLength
	if info.BlockAlign > 0 {
		info.Frames = info.DataLength / int64(info.BlockAlign)
	}
	d.info = info
	return &d.info, nil
}

func (d *Driver) openWrite(sampleRate uint32, channels int) (*container.Info, error) {
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerMPC2K, format.CodecPCM16, format.EndianLittle),
		SampleRate: sampleRate,
		Channels:   channels,
		BlockAlign: 2 * channels,
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
		if d.info.BlockAlign > 0 {
			frameCount = (fileLen - headerLength) / int64(d.info.BlockAlign)
		}
	}

	w.Writef("1", uint8(1))
	w.Writef("1", uint8(4))
	w.Writef("z", nameLength)
	w.Writef("1", uint8(0)) // level
	w.Writef("1", uint8(0)) // tune
	channels := uint8(0)
	if d.info.Channels == 2 {
		channels = 1
	}
	w.Writef("1", channels)
	w.Writef("e4", uint32(0))              // sample start
	w.Writef("e4", uint32(frameCount))     // loop end
	w.Writef("e4", uint32(frameCount))     // sample frames
	w.Writef("e4", uint32(0))              // loop length
	w.Writef("1", uint8(0))                // loop mode
	w.Writef("1", uint8(0))                // number of beats
	w.Writef("e2", uint16(d.info.SampleRate))

	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return err
	}
	if _, err := d.s.Write(w.Bytes()); err != nil {
		return err
	}
	d.info.DataOffset = headerLength
	if finalize {
		d.info.Frames = frameCount
		d.info.DataLength = frameCount * int64(d.info.BlockAlign)
	}
	return nil
}

func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
