/*
NAME
  command.go

DESCRIPTION
  command.go implements the generic command interface (spec §6): a single
  integer command id plus an opaque argument, the same escape hatch the
  teacher's library exposes for the long tail of format-specific knobs
  that don't deserve their own typed method.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package sndfile

import (
	"encoding/binary"

	"github.com/wavecore/sndfile/internal/dither"
)

// hostIsLittleEndian detects the running process's native byte order via
// the standard library's NativeEndian, rather than assume amd64/arm64's
// little-endian convention.
func hostIsLittleEndian() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 1
}

// Command identifies a single command-interface request.
//
// The four conversion toggles (CmdSetNormFloat, CmdSetNormDouble,
// CmdSetScaleIntFloatWrite, CmdSetClipping) update the handle's Params.
// The codec driver keeps the Params it was built with at Open, so these
// toggles do not change how samples are converted.
type Command int

const (
	// CmdSetNormFloat toggles float sample normalisation; Arg is a bool.
	CmdSetNormFloat Command = iota
	// CmdSetNormDouble toggles double sample normalisation; Arg is a bool.
	CmdSetNormDouble
	// CmdSetScaleIntFloatWrite toggles integer-to-float write scaling;
	// Arg is a bool.
	CmdSetScaleIntFloatWrite
	// CmdSetClipping toggles out-of-range clamping on sample conversion;
	// Arg is a bool.
	CmdSetClipping
	// CmdSetDitherOnRead sets the read-side dither mode; Arg is a
	// dither.Mode.
	CmdSetDitherOnRead
	// CmdSetDitherOnWrite sets the write-side dither mode; Arg is a
	// dither.Mode.
	CmdSetDitherOnWrite
	// CmdUpdateHeaderNow rewrites the container header in place without
	// closing the handle; Arg is ignored.
	CmdUpdateHeaderNow
	// CmdGetCurrentSFInfo returns a copy of the current Info; Arg is
	// ignored, result is an Info.
	CmdGetCurrentSFInfo
	// CmdCalcSignalMax returns the peak tracker's channel-wise maxima as
	// []float32; Arg is ignored.
	CmdCalcSignalMax
	// CmdGetLogInfo returns the module's diagnostic log buffer as a
	// string; Arg is ignored.
	CmdGetLogInfo
	// CmdRawNeedsEndswap reports whether the container's on-disk byte
	// order differs from CPU order, as a bool result; Arg is ignored.
	CmdRawNeedsEndswap
	// CmdSetAddPeakChunk toggles whether Close passes the peak tracker to
	// the container's WriteTailer; Arg is a bool. No container driver
	// writes a PEAK chunk, so the file's bytes are the same either way.
	CmdSetAddPeakChunk
)

// Command dispatches a single command-interface request against f. It
// mirrors the teacher/original library's sf_command escape hatch: most
// behaviour lives behind typed methods, but the long tail of rarely-used
// toggles is cheaper to add here than as one more exported method.
func (f *File) Command(cmd Command, arg any) (any, error) {
	if f.h == nil {
		return nil, New(ErrBadMode)
	}

	switch cmd {
	case CmdSetNormFloat:
		p := f.h.Params()
		p.Normalize = arg.(bool)
		f.h.SetParams(p)
		return nil, nil

	case CmdSetNormDouble:
		p := f.h.Params()
		p.Normalize = arg.(bool)
		f.h.SetParams(p)
		return nil, nil

	case CmdSetScaleIntFloatWrite:
		p := f.h.Params()
		p.ScaleInt = arg.(bool)
		f.h.SetParams(p)
		return nil, nil

	case CmdSetClipping:
		p := f.h.Params()
		p.Clip = arg.(bool)
		f.h.SetParams(p)
		return nil, nil

	case CmdSetDitherOnRead:
		f.h.DitherRead().Enable(arg.(dither.Mode))
		return nil, nil

	case CmdSetDitherOnWrite:
		f.h.DitherWrite().Enable(arg.(dither.Mode))
		return nil, nil

	case CmdUpdateHeaderNow:
		if err := f.h.UpdateHeader(); err != nil {
			return nil, Wrap(err, ErrSystemIO)
		}
		return nil, nil

	case CmdGetCurrentSFInfo:
		return f.Info(), nil

	case CmdCalcSignalMax:
		t := f.h.Tracker()
		if t == nil {
			return nil, New(ErrChannelCount)
		}
		out := make([]float32, f.Info().Channels)
		for ch := range out {
			v, _ := t.Get(ch)
			out[ch] = v
		}
		return out, nil

	case CmdGetLogInfo:
		var buf string
		for _, line := range f.parseLog {
			buf += line + "\n"
		}
		return buf, nil

	case CmdRawNeedsEndswap:
		return f.needsEndswap(), nil

	case CmdSetAddPeakChunk:
		f.addPeakChunk = arg.(bool)
		f.h.SetEmitPeak(f.addPeakChunk)
		return nil, nil

	default:
		return nil, New(ErrUnsupportedEncoding)
	}
}

// needsEndswap reports whether the bound container's on-disk sample byte
// order differs from the CPU's native order (spec §6's raw-data-needs-
// endswap query, used by callers that bypass sample conversion entirely
// and blit codec.Driver's raw bytes straight through).
func (f *File) needsEndswap() bool {
	info := f.Info()
	switch info.Endian {
	case EndianBig:
		return hostIsLittleEndian()
	case EndianLittle:
		return !hostIsLittleEndian()
	default:
		return false
	}
}
