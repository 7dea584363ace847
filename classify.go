/*
NAME
  classify.go

DESCRIPTION
  classify.go translates the container/codec packages' own local sentinel
  errors into the stable, publicly-documented Code taxonomy (spec §6), so
  a caller can switch on sndfile.Code without reaching into internal
  packages it isn't allowed to import.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package sndfile

import (
	"errors"

	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/container/aiff"
	"github.com/wavecore/sndfile/internal/container/au"
	"github.com/wavecore/sndfile/internal/container/avr"
	"github.com/wavecore/sndfile/internal/container/caf"
	"github.com/wavecore/sndfile/internal/container/mat4"
	"github.com/wavecore/sndfile/internal/container/mpc2k"
	"github.com/wavecore/sndfile/internal/container/paf"
	"github.com/wavecore/sndfile/internal/container/pvf"
	"github.com/wavecore/sndfile/internal/container/svx"
	"github.com/wavecore/sndfile/internal/container/w64"
	"github.com/wavecore/sndfile/internal/container/wav"
	"github.com/wavecore/sndfile/internal/container/wve"
	"github.com/wavecore/sndfile/internal/sfhandle"
)

// codeFor pairs a sentinel error with the taxonomy Code it maps to.
type codeFor struct {
	err  error
	code Code
}

var sentinelCodes = []codeFor{
	{wav.ErrNoRIFF, ErrWAVNoRIFF},
	{wav.ErrNoFMT, ErrWAVNoFMT},
	{wav.ErrNoDATA, ErrWAVNoDATA},
	{wav.ErrHeaderLengthChanged, ErrMalformedFile},
	{aiff.ErrNoFORM, ErrAIFFNoFORM},
	{aiff.ErrNoCOMM, ErrAIFFNoCOMM},
	{aiff.ErrNoSSND, ErrAIFFNoSSND},
	{caf.ErrNoCAFF, ErrCAFNoDESC},
	{caf.ErrNoDESC, ErrCAFNoDESC},
	{au.ErrNoMagic, ErrAUNoMagic},
	{w64.ErrNoRIFF, ErrW64NoRIFF},
	{w64.ErrNoFMT, ErrW64NoRIFF},
	{w64.ErrNoDATA, ErrW64NoRIFF},
	{avr.ErrBadMagic, ErrMalformedFile},
	{mpc2k.ErrNoMarker, ErrMalformedFile},
	{pvf.ErrNoPVF1, ErrMalformedFile},
	{pvf.ErrBadHeader, ErrMalformedFile},
	{paf.ErrNoMarker, ErrMalformedFile},
	{paf.ErrBadVersion, ErrMalformedFile},
	{svx.ErrNoFORM, ErrMalformedFile},
	{svx.ErrNoVHDR, ErrMalformedFile},
	{svx.ErrNoBODY, ErrMalformedFile},
	{wve.ErrBadMagic, ErrMalformedFile},
	{mat4.ErrBadMarker, ErrMalformedFile},
	{mat4.ErrNoSampleRate, ErrMalformedFile},
	{mat4.ErrChannelCount, ErrChannelCount},
	{mat4.ErrHeaderRewrite, ErrMalformedFile},
	{codec.ErrUnsupportedEncoding, ErrUnsupportedEncoding},
	{codec.ErrSeekUnsupported, ErrBadSeek},
	{sfhandle.ErrUnrecognisedContainer, ErrUnrecognisedFormat},
	{sfhandle.ErrClosed, ErrBadMode},
}

// classify wraps err in an *Error carrying the matching taxonomy Code, or
// ErrSystemIO if nothing in the sentinel table matches (the catch-all for
// genuine I/O failures bubbling up from the byte stream).
func classify(err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return se
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return Wrap(err, sc.code)
		}
	}
	return Wrap(err, ErrSystemIO)
}
