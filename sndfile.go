/*
NAME
  sndfile.go

DESCRIPTION
  sndfile.go is the public entry point: Info describes a sound file's
  format, Open binds a VirtualIO to a container/codec pair and returns a
  File, and File's sample-typed methods mirror the teacher's Revid-style
  "construct once, call methods" API over the internal handle aggregate.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package sndfile reads and writes sampled audio in a range of container
// and codec formats over a seekable or streaming byte source, the way
// libsndfile's C API does: one Open call, a handful of sample-typed
// read/write methods, and a command interface for the long tail of
// format-specific controls.
package sndfile

import (
	"fmt"
	"os"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/sfhandle"
)

// Mode selects how Open binds the handle: Read parses an existing header,
// Write initialises a fresh one, ReadWrite allows header rewrite in place
// (spec §3).
type Mode = container.Mode

const (
	Read      = container.Read
	Write     = container.Write
	ReadWrite = container.ReadWrite
)

// Container and Codec re-export the format package's tag enumerations so
// callers never import internal/format directly.
type (
	Container = format.Container
	Codec     = format.Codec
	Endian    = format.Endian
)

const (
	ContainerWAV   = format.ContainerWAV
	ContainerAIFF  = format.ContainerAIFF
	ContainerAU    = format.ContainerAU
	ContainerCAF   = format.ContainerCAF
	ContainerW64   = format.ContainerW64
	ContainerRF64  = format.ContainerRF64
	ContainerPAF   = format.ContainerPAF
	ContainerAVR   = format.ContainerAVR
	ContainerMPC2K = format.ContainerMPC2K
	ContainerPVF   = format.ContainerPVF
	ContainerWVE   = format.ContainerWVE
	ContainerSVX   = format.ContainerSVX
	ContainerMAT4  = format.ContainerMAT4
	ContainerRaw   = format.ContainerRaw
)

const (
	CodecPCMS8      = format.CodecPCMS8
	CodecPCMU8      = format.CodecPCMU8
	CodecPCM16      = format.CodecPCM16
	CodecPCM24      = format.CodecPCM24
	CodecPCM32      = format.CodecPCM32
	CodecFloat      = format.CodecFloat
	CodecDouble     = format.CodecDouble
	CodecULaw       = format.CodecULaw
	CodecALaw       = format.CodecALaw
	CodecIMAADPCM   = format.CodecIMAADPCM
	CodecMSADPCM    = format.CodecMSADPCM
	CodecVoxADPCM   = format.CodecVoxADPCM
	CodecNMSADPCM16 = format.CodecNMSADPCM16
	CodecNMSADPCM24 = format.CodecNMSADPCM24
	CodecNMSADPCM32 = format.CodecNMSADPCM32
	CodecG721       = format.CodecG721
	CodecG723_24    = format.CodecG723_24
	CodecG723_40    = format.CodecG723_40
	CodecGSM610     = format.CodecGSM610
	CodecDWVW12     = format.CodecDWVW12
	CodecDWVW16     = format.CodecDWVW16
	CodecDWVW24     = format.CodecDWVW24
	CodecFLAC       = format.CodecFLAC
	CodecALAC       = format.CodecALAC
	CodecVorbis     = format.CodecVorbis
)

const (
	EndianFile   = format.EndianFile
	EndianLittle = format.EndianLittle
	EndianBig    = format.EndianBig
	EndianCPU    = format.EndianCPU
)

// VirtualIO is the byte-source abstraction Open binds to: an *os.File, an
// in-memory buffer, or a caller-supplied pipe/socket wrapper, mirroring
// libsndfile's SF_VIRTUAL_IO (spec §6).
type VirtualIO = byteio.VirtualIO

// Info describes a sound file's format, either as parsed from an existing
// header (Read mode) or as requested for a fresh one (Write mode).
type Info struct {
	Container  Container
	Codec      Codec
	Endian     Endian
	SampleRate uint32
	Channels   int
	Frames     int64
}

// File is a bound, open sound file: one Info, one internal handle, and
// the parse log / peak-chunk toggle the command interface manipulates.
type File struct {
	h            *sfhandle.Handle
	log          Logger
	parseLog     []string
	addPeakChunk bool
}

// Open binds vio under mode using info to select/initialise the container
// and codec. In Read mode, info's SampleRate/Channels/Codec are ignored
// (the header supplies them) except for ContainerRaw, which has no header
// and needs them in every mode; in Write mode they're required. A nil
// logger installs the silent default.
func Open(vio VirtualIO, mode Mode, info Info, logger Logger) (*File, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	s := byteio.NewVirtual(vio)
	h, err := sfhandle.Open(s, mode, info.SampleRate, info.Channels, info.Container, info.Codec, info.Endian)
	if err != nil {
		return nil, classify(err)
	}

	f := &File{h: h, log: logger, addPeakChunk: true}
	hi := h.Info()
	if hi.Channels == 0 && mode != container.Write {
		f.logParse("sndfile: opened with zero channels")
	}
	return f, nil
}

// OpenFile binds an on-disk path under mode, matching the common case
// where the caller has a real file rather than a custom VirtualIO. Write
// and ReadWrite modes create the file if it doesn't exist.
func OpenFile(path string, mode Mode, info Info, logger Logger) (*File, error) {
	var flag int
	switch mode {
	case container.Read:
		flag = os.O_RDONLY
	case container.Write:
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	default:
		flag = os.O_RDWR | os.O_CREATE
	}

	osf, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, Wrap(err, ErrSystemIO)
	}

	if logger == nil {
		logger = noopLogger{}
	}

	s := byteio.NewFile(osf)
	h, err := sfhandle.Open(s, mode, info.SampleRate, info.Channels, info.Container, info.Codec, info.Endian)
	if err != nil {
		osf.Close()
		return nil, classify(err)
	}
	return &File{h: h, log: logger, addPeakChunk: true}, nil
}

// Info returns the file's current format descriptor.
func (f *File) Info() Info {
	hi := f.h.Info()
	return Info{
		Container:  hi.Format.Container(),
		Codec:      hi.Format.Codec(),
		Endian:     hi.Format.Endian(),
		SampleRate: hi.SampleRate,
		Channels:   hi.Channels,
		Frames:     hi.Frames,
	}
}

// Frames returns the handle's running frame cursor.
func (f *File) Frames() int64 { return f.h.Frames() }

// Index exposes the unknown-chunk index recorded during Open/WriteHeader,
// for callers that want to inspect or re-emit chunks this engine doesn't
// interpret (spec §4.3).
func (f *File) Index() *chunkindex.Index { return f.h.Index() }

// ParseLog returns the parse-log lines recorded since Open. The only line
// recorded is the zero-channel notice Open adds when a non-write open
// reports no channels.
func (f *File) ParseLog() []string { return append([]string(nil), f.parseLog...) }

func (f *File) logParse(formatStr string, args ...interface{}) {
	line := fmt.Sprintf(formatStr, args...)
	f.parseLog = append(f.parseLog, line)
	f.log.Log(LogDebug, line)
}

func (f *File) ReadShort(buf []int16) (int, error) {
	n, err := f.h.ReadShort(buf)
	return n, f.ioErr(err)
}

func (f *File) ReadInt(buf []int32) (int, error) {
	n, err := f.h.ReadInt(buf)
	return n, f.ioErr(err)
}

func (f *File) ReadFloat(buf []float32) (int, error) {
	n, err := f.h.ReadFloat(buf)
	return n, f.ioErr(err)
}

func (f *File) ReadDouble(buf []float64) (int, error) {
	n, err := f.h.ReadDouble(buf)
	return n, f.ioErr(err)
}

func (f *File) WriteShort(buf []int16) (int, error) {
	n, err := f.h.WriteShort(buf)
	return n, f.ioErr(err)
}

func (f *File) WriteInt(buf []int32) (int, error) {
	n, err := f.h.WriteInt(buf)
	return n, f.ioErr(err)
}

func (f *File) WriteFloat(buf []float32) (int, error) {
	n, err := f.h.WriteFloat(buf)
	return n, f.ioErr(err)
}

func (f *File) WriteDouble(buf []float64) (int, error) {
	n, err := f.h.WriteDouble(buf)
	return n, f.ioErr(err)
}

// SeekFrame repositions the read/write cursor to frame.
func (f *File) SeekFrame(frame int64) error {
	if err := f.h.SeekFrame(frame); err != nil {
		return Wrap(err, ErrBadSeek)
	}
	return nil
}

// Close finalises the header (if opened for write), flushes the codec,
// and releases the handle. Close is idempotent.
func (f *File) Close() error {
	if err := f.h.Close(); err != nil {
		return Wrap(err, ErrSystemIO)
	}
	return nil
}

func (f *File) ioErr(err error) error {
	if err == nil {
		return nil
	}
	return classify(err)
}

