/*
NAME
  codec.go

DESCRIPTION
  codec.go defines the shared codec driver contract (spec §4.5) and the
  sample-type conversion helpers every codec package builds on: a codec's
  native width composes with the caller's requested sample type (short,
  int, float, double) via a small set of scale/clip rules.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package codec defines the Driver interface every codec implementation
// satisfies, plus the sample-type conversion and peak-tracking helpers
// shared across PCM, ADPCM, A-law/u-law and the wrapped-library codecs.
package codec

import (
	"errors"

	"github.com/wavecore/sndfile/internal/peak"
)

// ErrSeekUnsupported is returned by codecs whose on-disk framing has no
// well-defined random access point other than the start of the stream
// (e.g. headerless VOX ADPCM, whose adaptive state has no block boundary
// to resynchronise on).
var ErrSeekUnsupported = errors.New("codec: seek not supported for this encoding")

// ErrUnsupportedEncoding is returned by codec drivers that only wire up
// block framing, with no compressor behind it (spec §4.5 draws the line
// at "libraries the core calls" for the heaviest compressed formats).
var ErrUnsupportedEncoding = errors.New("codec: encoding recognised but not supported by this build")

// Params carries the handle-level settings that influence sample-type
// conversion (spec §6 command interface): normalisation, scale-on-write,
// and clipping.
type Params struct {
	Normalize bool // floats are in [-1, 1] rather than integer-full-scale
	ScaleInt  bool // scale integers to/from float full-scale on write
	Clip      bool // clamp out-of-range conversions instead of wrapping
}

// DefaultParams matches the common library default: normalised floats,
// clipping enabled.
func DefaultParams() Params { return Params{Normalize: true, Clip: true} }

// Driver is implemented by every codec: one read and one write method per
// public sample type, plus a Seek (codecs without meaningful seek, such as
// block-compressed ADPCM, may no-op) and a Close that flushes any partial
// block before the container's header is rewritten.
type Driver interface {
	ReadShort(buf []int16) (int, error)
	ReadInt(buf []int32) (int, error)
	ReadFloat(buf []float32) (int, error)
	ReadDouble(buf []float64) (int, error)

	WriteShort(buf []int16) (int, error)
	WriteInt(buf []int32) (int, error)
	WriteFloat(buf []float32) (int, error)
	WriteDouble(buf []float64) (int, error)

	// SeekFrame repositions the codec's read/write cursor to the given
	// frame index. Codecs that cannot seek (G.721/G.723, spec §4.5)
	// return an error.
	SeekFrame(frame int64) error

	// Close flushes any partial block (ADPCM codecs hold one) and
	// releases codec-private resources.
	Close() error
}

// ScratchLen is the conventional per-codec scratch buffer size (spec
// §4.5's ~SF_BUFFER_LEN). The pcm codec allocates one buffer of this size
// at construction; its read and write paths do not use it and allocate a
// buffer sized to each request instead.
const ScratchLen = 8192

// ShortToFloat converts a 16-bit PCM sample to float, honouring
// Normalize.
func ShortToFloat(s int16, p Params) float32 {
	if p.Normalize {
		return float32(s) / 32768.0
	}
	return float32(s)
}

// FloatToShort converts a float sample back to 16-bit PCM, clamping when
// p.Clip is set.
func FloatToShort(f float32, p Params) int16 {
	v := float64(f)
	if p.Normalize {
		v *= 32768.0
	}
	return clampInt16(v, p.Clip)
}

// ShortToDouble/DoubleToShort mirror ShortToFloat/FloatToShort at double
// precision.
func ShortToDouble(s int16, p Params) float64 {
	if p.Normalize {
		return float64(s) / 32768.0
	}
	return float64(s)
}

func DoubleToShort(f float64, p Params) int16 {
	v := f
	if p.Normalize {
		v *= 32768.0
	}
	return clampInt16(v, p.Clip)
}

// ShortToInt widens a 16-bit sample to 32-bit by left-shifting 16 bits,
// matching the spec's "native 16-bit produces int via <<16" rule.
func ShortToInt(s int16) int32 { return int32(s) << 16 }

// IntToShort narrows a 32-bit sample back to 16-bit by arithmetic right
// shift, the inverse of ShortToInt.
func IntToShort(v int32) int16 { return int16(v >> 16) }

func clampInt16(v float64, clip bool) int16 {
	if clip {
		if v > 32767 {
			return 32767
		}
		if v < -32768 {
			return -32768
		}
	}
	return int16(v)
}

func clampInt32(v float64, clip bool) int32 {
	if clip {
		if v > 2147483647 {
			return 2147483647
		}
		if v < -2147483648 {
			return -2147483648
		}
	}
	return int32(v)
}

// Int32FromFloat converts a normalised or full-scale float into a 32-bit
// integer sample, clamping per p.Clip.
func Int32FromFloat(f float32, p Params) int32 {
	v := float64(f)
	if p.Normalize {
		v *= 2147483648.0
	}
	return clampInt32(v, p.Clip)
}

// FloatFromInt32 converts a 32-bit integer sample to float, honouring
// p.Normalize.
func FloatFromInt32(v int32, p Params) float32 {
	if p.Normalize {
		return float32(float64(v) / 2147483648.0)
	}
	return float32(v)
}

// NewPeakTracker returns a peak.Tracker for the given channel count, or
// nil if channels is zero (no tracking possible).
func NewPeakTracker(channels int) *peak.Tracker {
	if channels <= 0 {
		return nil
	}
	return peak.New(channels)
}
