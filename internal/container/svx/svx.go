/*
NAME
  svx.go

DESCRIPTION
  svx.go implements the Amiga 8SVX/16SV (IFF) container driver (spec
  §4.4): a FORM/8SVX-or-16SV chunk walk, VHDR carrying sample rate and
  loop bounds, BODY carrying the big-endian sample data. Grounded on
  original_source/src/svx.cpp's VHDR_CHUNK layout and marker table.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package svx implements the Amiga 8SVX/16SV container driver.
package svx

import (
	"errors"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/headerbuf"
	"github.com/wavecore/sndfile/internal/peak"
)

var (
	ErrNoFORM = errors.New("svx: no FORM chunk found")
	ErrNoVHDR = errors.New("svx: no VHDR chunk found")
	ErrNoBODY = errors.New("svx: no BODY chunk found")
)

func marker(s string) uint32 {
	b := []byte(s)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func align2(n int64) int64 {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// Driver implements container.Driver for 8SVX/16SV.
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info  container.Info
	is16  bool
}

// New returns an unopened SVX driver bound to s.
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

	var form, formSize, kind uint32
	rdr.Readf("Em", &form)
	if form != marker("FORM") {
		return nil, ErrNoFORM
	}
	rdr.Readf("E4", &formSize)
	rdr.Readf("Em", &kind)
	d.is16 = kind == marker("16SV")
	if !d.is16 && kind != marker("8SVX") {
		return nil, ErrNoFORM
	}

	info := container.Info{Channels: 1, Seekable: true}
	haveVHDR, haveBODY := false, false

	for {
		var id, size32 uint32
		n1, err1 := rdr.Readf("m", &id)
		if n1 == 0 || err1 != nil {
			break
		}
		n2, err2 := rdr.Readf("E4", &size32)
		if n2 == 0 || err2 != nil {
			break
		}
		size := int64(size32)
		idBytes := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
		off, _ := d.s.Tell()
		d.idx.StoreReadChunk(idBytes, off, size)

		switch id {
		case marker("VHDR"):
			haveVHDR = true
			var oneShot, repeatHi, samplesPerCycle uint32
			var srate uint16
			var octave, compression uint8
			var volume uint32
			rdr.Readf("E4", &oneShot)
			rdr.Readf("E4", &repeatHi)
			rdr.Readf("E4", &samplesPerCycle)
			rdr.Readf("E2", &srate)
			rdr.Readf("1", &octave)
			rdr.Readf("1", &compression)
			rdr.Readf("E4", &volume)
			info.SampleRate = uint32(srate)
			consumed := int64(20)
			if consumed < size {
				d.s.Seek(size-consumed, byteio.WhenceCur)
			}
		case marker("BODY"):
			haveBODY = true
			off, _ := d.s.Tell()
			info.DataOffset = off
			info.DataLength = size
			fileLen, _ := d.s.GetLength()
			if info.DataOffset+info.DataLength > fileLen {
				info.DataLength = fileLen - info.DataOffset
			}
			d.s.Seek(align2(info.DataLength), byteio.WhenceCur)
			continue
		default:
			d.s.Seek(size, byteio.WhenceCur)
		}
		if size%2 != 0 {
			d.s.Seek(1, byteio.WhenceCur)
		}
	}

	if !haveVHDR {
		return nil, ErrNoVHDR
	}
	if !haveBODY {
		return nil, ErrNoBODY
	}

	cd := format.CodecPCMS8
	bits := 8
	if d.is16 {
		cd = format.CodecPCM16
		bits = 16
	}
	info.Format = format.NewFormat(format.ContainerSVX, cd, format.EndianBig)
	info.BlockAlign = bits / 8
	if info.BlockAlign > 0 {
		info.Frames = info.DataLength / int64(info.BlockAlign)
	}
	d.info = info
	return &d.info, nil
}

func (d *Driver) openWrite(sampleRate uint32, channels int, codec format.Codec) (*container.Info, error) {
	d.is16 = codec == format.CodecPCM16
	bits := 8
	if d.is16 {
		bits = 16
	}
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerSVX, codec, format.EndianBig),
		SampleRate: sampleRate,
		Channels:   1,
		BlockAlign: bits / 8,
		Seekable:   true,
	}
	if err := d.WriteHeader(false, 0); err != nil {
		return nil, err
	}
	return &d.info, nil
}

// WriteHeader (re)emits FORM/8SVX-or-16SV, VHDR and a BODY chunk header.
func (d *Driver) WriteHeader(finalize bool, frames int64) error {
	w := headerbuf.NewWriter()

	sampleCount := frames
	if finalize {
		fileLen, err := d.s.GetLength()
		if err != nil {
			return err
		}
		dataStart := d.info.DataOffset
		if dataStart == 0 {
			dataStart = 20 + 8 + 12 + 8 // FORM header + VHDR chunk + BODY header
		}
		if d.info.BlockAlign > 0 {
			sampleCount = (fileLen - dataStart) / int64(d.info.BlockAlign)
		}
	}
	bodySize := sampleCount * int64(d.info.BlockAlign)
	formSize := uint32(4 + 8 + 20 + 8 + bodySize)

	w.Writef("Em", "FORM")
	w.Writef("E4", formSize)
	if d.is16 {
		w.Writef("Em", "16SV")
	} else {
		w.Writef("Em", "8SVX")
	}

	w.Writef("mE4", "VHDR", uint32(20))
	w.Writef("E4", uint32(sampleCount)) // one-shot samples
	w.Writef("E4", uint32(0))           // repeat samples
	w.Writef("E4", uint32(0))           // samples per cycle
	w.Writef("E2", uint16(d.info.SampleRate))
	w.Writef("1", uint8(0)) // octave
	w.Writef("1", uint8(0)) // compression (0 = none)
	w.Writef("E4", uint32(65536)) // volume, unity gain

	w.Writef("mE4", "BODY", uint32(bodySize))

	if d.info.DataOffset != 0 && int64(w.Len()) != d.info.DataOffset {
		return errors.New("svx: rewritten header length does not match the original data offset")
	}

	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return err
	}
	if _, err := d.s.Write(w.Bytes()); err != nil {
		return err
	}
	d.info.DataOffset = int64(w.Len())
	if finalize {
		d.info.DataLength = bodySize
		d.info.Frames = sampleCount
	}
	return nil
}

func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
