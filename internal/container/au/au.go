/*
NAME
  au.go

DESCRIPTION
  au.go implements the Sun/NeXT .au container driver (spec §4.4): a fixed
  24-byte big-endian header (".snd" magic, data offset, data size,
  encoding, sample rate, channel count) with no chunk structure. Grounded
  on original_source/src/au.cpp's AU_ENCODING_* table and AU_DATA_OFFSET.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package au implements the Sun/NeXT .au container driver.
package au

import (
	"errors"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/headerbuf"
	"github.com/wavecore/sndfile/internal/peak"
)

var ErrNoMagic = errors.New("au: no .snd/dns. magic found")

func marker(s string) uint32 {
	b := []byte(s)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

const (
	encodingULaw8   = 1
	encodingPCM8    = 2
	encodingPCM16   = 3
	encodingPCM24   = 4
	encodingPCM32   = 5
	encodingFloat   = 6
	encodingDouble  = 7
	encodingALaw    = 27
)

func codecFor(enc uint32) format.Codec {
	switch enc {
	case encodingULaw8:
		return format.CodecULaw
	case encodingALaw:
		return format.CodecALaw
	case encodingPCM8:
		return format.CodecPCMS8
	case encodingPCM24:
		return format.CodecPCM24
	case encodingPCM32:
		return format.CodecPCM32
	case encodingFloat:
		return format.CodecFloat
	case encodingDouble:
		return format.CodecDouble
	default:
		return format.CodecPCM16
	}
}

func encodingFor(c format.Codec) (uint32, int) {
	switch c {
	case format.CodecULaw:
		return encodingULaw8, 8
	case format.CodecALaw:
		return encodingALaw, 8
	case format.CodecPCMS8, format.CodecPCMU8:
		return encodingPCM8, 8
	case format.CodecPCM24:
		return encodingPCM24, 24
	case format.CodecPCM32:
		return encodingPCM32, 32
	case format.CodecFloat:
		return encodingFloat, 32
	case format.CodecDouble:
		return encodingDouble, 64
	default:
		return encodingPCM16, 16
	}
}

// Driver implements container.Driver for the .au/.snd format.
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info container.Info
}

// New returns an unopened AU driver bound to s.
func New(s *byteio.Stream) *Driver { return &Driver{s: s, idx: chunkindex.New()} }

func (d *Driver) Index() *chunkindex.Index { return d.idx }

func (d *Driver) Open(mode container.Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	if mode == container.Write {
		return d.openWrite(sampleRate, channels, codec)
	}
	return d.openRead(channels)
}

func (d *Driver) openRead(channels int) (*container.Info, error) {
	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return nil, err
	}
	rdr := headerbuf.NewReader(d.s)

	var magic, dataOffset, dataSize, encoding, sampleRate, chans uint32
	rdr.Readf("Em", &magic)
	if magic != marker(".snd") && magic != marker("dns.") {
		return nil, ErrNoMagic
	}
	order := "E"
	if magic == marker("dns.") {
		order = "e"
	}
	rdr.Readf(order+"4", &dataOffset)
	rdr.Readf(order+"4", &dataSize)
	rdr.Readf(order+"4", &encoding)
	rdr.Readf(order+"4", &sampleRate)
	rdr.Readf(order+"4", &chans)

	info := container.Info{Channels: int(chans), SampleRate: sampleRate, Seekable: true}
	if info.Channels == 0 {
		info.Channels = channels
	}
	info.DataOffset = int64(dataOffset)
	fileLen, _ := d.s.GetLength()
	info.DataLength = int64(dataSize)
	if dataSize == 0xFFFFFFFF || info.DataOffset+info.DataLength > fileLen {
		info.DataLength = fileLen - info.DataOffset
	}

	cd := codecFor(encoding)
	_, bits := encodingFor(cd)
	endianTag := format.EndianBig
	if magic == marker("dns.") {
		endianTag = format.EndianLittle
	}
	info.Format = format.NewFormat(format.ContainerAU, cd, endianTag)
	if bits > 0 && info.Channels > 0 {
		info.Frames = info.DataLength / int64(bits/8*info.Channels)
	}
	d.idx.StoreReadChunk([]byte(".snd"), 0, int64(dataOffset))
	d.info = info
	return &d.info, nil
}

func (d *Driver) openWrite(sampleRate uint32, channels int, codec format.Codec) (*container.Info, error) {
	_, bits := encodingFor(codec)
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerAU, codec, format.EndianBig),
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

// WriteHeader (re)emits the fixed 24-byte .au header.
func (d *Driver) WriteHeader(finalize bool, frames int64) error {
	w := headerbuf.NewWriter()
	encoding, _ := encodingFor(d.info.Format.Codec())

	dataLen := d.info.DataLength
	if finalize {
		fileLen, err := d.s.GetLength()
		if err != nil {
			return err
		}
		dataLen = fileLen - 24
	}

	w.Writef("Em", ".snd")
	w.Writef("E4", uint32(24))
	w.Writef("E4", uint32(dataLen))
	w.Writef("E4", encoding)
	w.Writef("E4", d.info.SampleRate)
	w.Writef("E4", uint32(d.info.Channels))

	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return err
	}
	if _, err := d.s.Write(w.Bytes()); err != nil {
		return err
	}
	d.info.DataOffset = 24
	if finalize {
		d.info.DataLength = dataLen
		if d.info.BlockAlign > 0 {
			d.info.Frames = dataLen / int64(d.info.BlockAlign)
		}
	}
	return nil
}

func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
