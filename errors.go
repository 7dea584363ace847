/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the stable error taxonomy returned by every public and
  internal sndfile operation.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package sndfile

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code is a stable, numeric error identifier. Values are part of the public
// API: callers may switch on Code without depending on message text.
type Code int

const (
	ErrUnknown Code = iota
	ErrUnrecognisedFormat
	ErrMalformedFile
	ErrUnsupportedEncoding
	ErrSystemIO
	ErrBadMode
	ErrBadSeek
	ErrChannelCount
	ErrInternal

	ErrWAVNoRIFF
	ErrWAVNoFMT
	ErrWAVNoDATA
	ErrAIFFNoFORM
	ErrAIFFNoCOMM
	ErrAIFFNoSSND
	ErrAIFCNoFVER
	ErrCAFNoDESC
	ErrRF64NotRF64
	ErrRF64NoDS64
	ErrAUNoMagic
	ErrW64NoRIFF
	ErrOpenPipeWriteUnsupported
)

var messages = map[Code]string{
	ErrUnknown:                  "unknown error",
	ErrUnrecognisedFormat:       "unrecognised format",
	ErrMalformedFile:            "malformed file",
	ErrUnsupportedEncoding:      "unsupported encoding",
	ErrSystemIO:                 "system I/O error",
	ErrBadMode:                  "operation not valid for this mode",
	ErrBadSeek:                  "bad seek",
	ErrChannelCount:             "invalid channel count",
	ErrInternal:                 "internal invariant violation",
	ErrWAVNoRIFF:                "WAV: no RIFF/RIFX chunk found",
	ErrWAVNoFMT:                 "WAV: no fmt chunk found",
	ErrWAVNoDATA:                "WAV: no data chunk found",
	ErrAIFFNoFORM:               "AIFF: no FORM chunk found",
	ErrAIFFNoCOMM:               "AIFF: no COMM chunk found",
	ErrAIFFNoSSND:               "AIFF: no SSND chunk found",
	ErrAIFCNoFVER:               "AIFC: no FVER chunk found",
	ErrCAFNoDESC:                "CAF: no desc chunk found",
	ErrRF64NotRF64:              "RF64: magic is not RF64",
	ErrRF64NoDS64:               "RF64: no ds64 chunk found",
	ErrAUNoMagic:                "AU: no .snd/dns. magic found",
	ErrW64NoRIFF:                "W64: no riff GUID found",
	ErrOpenPipeWriteUnsupported: "open for write on a pipe is not supported by this container",
}

// Error is the error type returned from every public sndfile operation and
// stored as the sticky per-handle error (spec §7).
type Error struct {
	Code  Code
	Cause error
}

func (e *Error) Error() string {
	msg, ok := messages[e.Code]
	if !ok {
		msg = messages[ErrUnknown]
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error for code with no wrapped cause.
func New(code Code) *Error { return &Error{Code: code} }

// Wrap returns an *Error for code wrapping cause. If cause is nil, Wrap
// returns nil. The cause is first run through github.com/pkg/errors.Wrap
// so a stack trace is attached at the I/O boundary where the failure was
// first observed, the way codec/pcm and container/mts wrap system errors
// in the teacher repo.
func Wrap(cause error, code Code) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Cause: pkgerrors.Wrap(cause, code.String())}
}

// String returns the stable human-readable message for code, ignoring any
// wrapped cause. Wrap uses it as the message prefix of the wrapped cause.
func (c Code) String() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[ErrUnknown]
}
