/*
NAME
  mat4.go

DESCRIPTION
  mat4.go implements the GNU Octave / MATLAB v4 ("MAT4") container driver:
  two back-to-back MAT4 "matrix" records, the
  first a 1x1 double named "samplerate" holding the sample rate, the second
  an M-by-N matrix named "wavedata" (M=channels, N=frames) holding the
  audio samples column-major, which for a matrix laid out row-fastest is
  exactly channel-interleaved frame data. Endianness is not a header flag
  here: MAT4's own encoding trick is that the leading matrix-type marker's
  four raw bytes, always read big-endian, read back as one constant for a
  file written on a big-endian host and a different constant for one
  written little-endian: the two marker values differ in their
  machine-format digit (0 little-endian, 1 big-endian) and each is stored
  in the writer's own byte order. Grounded on
  original_source/src/mat4.cpp's mat4_read_header/mat4_write_header.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package mat4 implements the GNU Octave / MATLAB v4 container driver.
package mat4

import (
	"errors"
	"math"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/headerbuf"
	"github.com/wavecore/sndfile/internal/peak"
)

var (
	ErrBadMarker     = errors.New("mat4: unrecognised matrix-type marker")
	ErrNoSampleRate  = errors.New("mat4: first matrix is not a 1x1 samplerate value")
	ErrChannelCount  = errors.New("mat4: zero channel count")
	ErrHeaderRewrite = errors.New("mat4: rewritten header length does not match the original data offset")
)

// Matrix-type markers: M*1000 + O*100 + P*10 + T packed into a 32-bit int
// and always read/written as four big-endian bytes, per mat4_read_header's
// MAKE_MARKER macro. The little-endian constants are simply the same
// packed int value as it looks when a little-endian host wrote it natively
// and is then read back byte-for-byte in big-endian order.
const (
	beDouble uint32 = 0x000003E8
	leDouble uint32 = 0x00000000
	beFloat  uint32 = 0x000003F2
	leFloat  uint32 = 0x0A000000
	bePCM32  uint32 = 0x000003FC
	lePCM32  uint32 = 0x14000000
	bePCM16  uint32 = 0x00000406
	lePCM16  uint32 = 0x1E000000
)

const (
	nameSampleRate = "samplerate"
	nameWaveData   = "wavedata"
)

// Driver implements container.Driver for MAT4.
type Driver struct {
	s   *byteio.Stream
	idx *chunkindex.Index

	info container.Info
}

// New returns an unopened MAT4 driver bound to s.
func New(s *byteio.Stream) *Driver { return &Driver{s: s, idx: chunkindex.New()} }

func (d *Driver) Index() *chunkindex.Index { return d.idx }

func ordCode(order format.Endian) string {
	if order == format.EndianBig {
		return "E"
	}
	return "e"
}

func markerFor(cd format.Codec, order format.Endian) uint32 {
	big := order == format.EndianBig
	switch cd {
	case format.CodecDouble:
		if big {
			return beDouble
		}
		return leDouble
	case format.CodecFloat:
		if big {
			return beFloat
		}
		return leFloat
	case format.CodecPCM32:
		if big {
			return bePCM32
		}
		return lePCM32
	default:
		if big {
			return bePCM16
		}
		return lePCM16
	}
}

func codecAndWidthFor(marker uint32) (format.Codec, format.Endian, int) {
	switch marker {
	case beDouble:
		return format.CodecDouble, format.EndianBig, 8
	case leDouble:
		return format.CodecDouble, format.EndianLittle, 8
	case beFloat:
		return format.CodecFloat, format.EndianBig, 4
	case leFloat:
		return format.CodecFloat, format.EndianLittle, 4
	case bePCM32:
		return format.CodecPCM32, format.EndianBig, 4
	case lePCM32:
		return format.CodecPCM32, format.EndianLittle, 4
	case bePCM16:
		return format.CodecPCM16, format.EndianBig, 2
	case lePCM16:
		return format.CodecPCM16, format.EndianLittle, 2
	default:
		return 0, format.EndianFile, 0
	}
}

func bytewidthFor(cd format.Codec) int {
	switch cd {
	case format.CodecDouble:
		return 8
	case format.CodecFloat, format.CodecPCM32:
		return 4
	default:
		return 2
	}
}

func (d *Driver) Open(mode container.Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	if mode == container.Write {
		return d.openWrite(sampleRate, channels, codec, order)
	}
	return d.openRead()
}

func (d *Driver) openRead() (*container.Info, error) {
	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return nil, err
	}
	rdr := headerbuf.NewReader(d.s)

	var rateMarker uint32
	if _, err := rdr.Readf("m", &rateMarker); err != nil {
		return nil, err
	}
	var order format.Endian
	switch rateMarker {
	case beDouble:
		order = format.EndianBig
	case leDouble:
		order = format.EndianLittle
	default:
		return nil, ErrBadMarker
	}
	ord := ordCode(order)

	var rows, cols, imag uint32
	rdr.Readf(ord+"4"+ord+"4"+ord+"4", &rows, &cols, &imag)
	if rows != 1 || cols != 1 {
		return nil, ErrNoSampleRate
	}
	var nameLen uint32
	rdr.Readf(ord+"4", &nameLen)
	name := make([]byte, nameLen)
	rdr.Readf("b", name)
	var rateVal float64
	rdr.Readf(ord+"d", &rateVal)

	var dataMarker uint32
	if _, err := rdr.Readf("m", &dataMarker); err != nil {
		return nil, err
	}
	cd, dataOrder, bytewidth := codecAndWidthFor(dataMarker)
	if bytewidth == 0 {
		return nil, ErrBadMarker
	}
	rdr.Readf(ordCode(dataOrder)+"4"+ordCode(dataOrder)+"4"+ordCode(dataOrder)+"4", &rows, &cols, &imag)
	rdr.Readf(ordCode(dataOrder)+"4", &nameLen)
	name2 := make([]byte, nameLen)
	rdr.Readf("b", name2)

	if rows == 0 {
		return nil, ErrChannelCount
	}

	dataOffset, _ := d.s.Tell()
	d.idx.StoreReadChunk(append([]byte(nameSampleRate), 0), 0, dataOffset)
	d.idx.StoreReadChunk(name2, dataOffset, int64(rows)*int64(cols)*int64(bytewidth))

	info := container.Info{Seekable: true}
	info.Channels = int(rows)
	info.Frames = int64(cols)
	info.SampleRate = uint32(math.Round(rateVal))
	info.DataOffset = dataOffset
	info.BlockAlign = bytewidth * info.Channels
	info.DataLength = int64(info.BlockAlign) * info.Frames
	info.Format = format.NewFormat(format.ContainerMAT4, cd, dataOrder)
	d.info = info
	return &d.info, nil
}

func (d *Driver) openWrite(sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*container.Info, error) {
	if order != format.EndianBig {
		order = format.EndianLittle
	}
	bytewidth := bytewidthFor(codec)
	d.info = container.Info{
		Format:     format.NewFormat(format.ContainerMAT4, codec, order),
		SampleRate: sampleRate,
		Channels:   channels,
		BlockAlign: bytewidth * channels,
		Seekable:   true,
	}
	if err := d.WriteHeader(false, 0); err != nil {
		return nil, err
	}
	return &d.info, nil
}

// WriteHeader (re)emits the samplerate matrix record followed by the
// wavedata matrix record with a tentative (or, at finalize, exact) column
// count. Both variable names are fixed-length, so the header's total size
// never changes between the provisional and finalized write.
func (d *Driver) WriteHeader(finalize bool, frames int64) error {
	w := headerbuf.NewWriter()
	codec := d.info.Format.Codec()
	order := d.info.Format.Endian()
	ord := ordCode(order)

	frameCount := frames
	if finalize {
		fileLen, err := d.s.GetLength()
		if err != nil {
			return err
		}
		if d.info.BlockAlign > 0 {
			frameCount = (fileLen - d.info.DataOffset) / int64(d.info.BlockAlign)
		}
	}

	rateMarker := leDouble
	if order == format.EndianBig {
		rateMarker = beDouble
	}
	dataMarker := markerFor(codec, order)

	rateName := append([]byte(nameSampleRate), 0)
	dataName := append([]byte(nameWaveData), 0)

	w.Writef("m", rateMarker)
	w.Writef(ord+"4"+ord+"4"+ord+"4", uint32(1), uint32(1), uint32(0))
	w.Writef(ord+"4", uint32(len(rateName)))
	w.Writef("b", rateName)
	w.Writef(ord+"d", float64(d.info.SampleRate))

	w.Writef("m", dataMarker)
	w.Writef(ord+"4"+ord+"4"+ord+"4", uint32(d.info.Channels), uint32(frameCount), uint32(0))
	w.Writef(ord+"4", uint32(len(dataName)))
	w.Writef("b", dataName)

	if d.info.DataOffset != 0 && int64(w.Len()) != d.info.DataOffset {
		return ErrHeaderRewrite
	}

	if _, err := d.s.Seek(0, byteio.WhenceSet); err != nil {
		return err
	}
	if _, err := d.s.Write(w.Bytes()); err != nil {
		return err
	}
	d.info.DataOffset = int64(w.Len())
	if finalize {
		d.info.Frames = frameCount
		d.info.DataLength = frameCount * int64(d.info.BlockAlign)
	}
	return nil
}

// WriteTailer is a no-op: MAT4 carries no end-located metadata chunk.
func (d *Driver) WriteTailer(tracker *peak.Tracker) error { return nil }

func (d *Driver) Close() error { return nil }
