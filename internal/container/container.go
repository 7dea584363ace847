/*
NAME
  container.go

DESCRIPTION
  container.go defines the shared container driver contract (spec §4.4):
  every container exposes open/write_header/write_tailer/close plus the
  parsed header fields a bound codec driver and the top-level handle need.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package container defines the Driver interface every container
// implementation satisfies, and the Info struct carrying the fields a
// parsed (or freshly initialised) header contributes to the handle.
package container

import (
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/peak"
)

// Mode mirrors the handle's open mode.
type Mode int

const (
	Read Mode = iota
	Write
	ReadWrite
)

// Info carries everything a container's Open populates for the handle:
// format descriptor, data region, and optional side-channel records.
type Info struct {
	Format          format.Format
	SampleRate      uint32
	Channels        int
	Frames          int64
	DataOffset      int64
	DataLength      int64
	BlockAlign      int // bytes per frame for PCM/float/A/u-law, bytes per block for block codecs
	SamplesPerBlock int
	ChannelMask     uint32 // WAVEX channel-position bitmask, 0 if absent
	Seekable        bool

	MagicCookie []byte // ALAC 'kuki' side-chunk payload, CAF only

	PeakChunk []peak.Channel // parsed start-located PEAK chunk, nil if absent
}

// Driver is implemented by every container format.
type Driver interface {
	// Open parses (read mode) or initialises (write mode) the container
	// header and returns the resulting Info.
	Open(mode Mode, sampleRate uint32, channels int, codec format.Codec, order format.Endian) (*Info, error)

	// WriteHeader (re)emits the header; finalize is true at close, when
	// the real data length/frame count is known.
	WriteHeader(finalize bool, frames int64) error

	// WriteTailer is called at close with the peak tracker (nil when PEAK
	// output is turned off). Every driver in this module implements it as
	// a no-op; no driver writes a PEAK chunk.
	WriteTailer(tracker *peak.Tracker) error

	// Close releases container-private resources. The codec closer runs
	// first (spec §3's handle lifecycle).
	Close() error

	// Index exposes the container's chunk index for unknown-chunk
	// pass-through (spec §4.3).
	Index() *chunkindex.Index
}
