/*
NAME
  sfhandle.go

DESCRIPTION
  sfhandle.go implements Handle, the aggregate that binds a byte stream to
  a container driver and a codec driver and presents one sample-typed
  read/write surface over both (spec §3's "file handle" and §4.1's open
  sequence: sniff/initialise container, then hand its Info to the codec
  dispatch table). The root package wraps Handle behind the public File
  type and translates errors into the module's Code taxonomy; Handle
  itself only ever returns plain errors so it stays free of an import
  cycle with the root package.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package sfhandle implements the internal file-handle aggregate shared by
// every public entry point: container/codec dispatch, cursor bookkeeping,
// and the optional dither/interleave stages layered over a codec's raw
// sample stream.
package sfhandle

import (
	"errors"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/chunkindex"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/dither"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/interleave"
	"github.com/wavecore/sndfile/internal/peak"
)

// ErrClosed is returned by any operation attempted on a Handle after Close.
var ErrClosed = errors.New("sfhandle: handle already closed")

// Handle aggregates everything a single open sound file needs: the
// underlying stream, the bound container/codec pair, and the side-channel
// trackers (peak, dither) the command interface toggles.
type Handle struct {
	stream    *byteio.Stream
	mode      container.Mode
	container container.Driver
	codecDrv  codec.Driver
	info      container.Info
	params    codec.Params
	tracker   *peak.Tracker

	ditherRead  *dither.Stage
	ditherWrite *dither.Stage

	// planar, when non-nil, indicates codecDrv also implements
	// interleave.PlanarSource; only ReadPlanarFrames uses it, the Read*
	// methods always call codecDrv directly.
	planar *interleave.Stage

	frames   int64 // running frame cursor, advanced by every read/write
	closed   bool
	emitPeak bool
}

// Open sniffs/initialises the container named by c, then builds the codec
// driver its parsed Info calls for. sampleRate/channels/cd/order are
// consulted in write mode (spec §4.1); read mode takes them from the
// container header, except for the raw container, which has no header and
// uses the caller's values in every mode.
func Open(s *byteio.Stream, mode container.Mode, sampleRate uint32, channels int, c format.Container, cd format.Codec, order format.Endian) (*Handle, error) {
	drv, err := newContainer(c, s)
	if err != nil {
		return nil, err
	}

	info, err := drv.Open(mode, sampleRate, channels, cd, order)
	if err != nil {
		return nil, err
	}

	tracker := codec.NewPeakTracker(info.Channels)
	if mode != container.Write && tracker != nil && len(info.PeakChunk) > 0 {
		tracker.Seed(info.PeakChunk)
	}
	params := codec.DefaultParams()

	codecDrv, err := newCodec(info, s, params, tracker)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		stream:      s,
		mode:        mode,
		container:   drv,
		codecDrv:    codecDrv,
		info:        *info,
		params:      params,
		tracker:     tracker,
		ditherRead:  dither.New(),
		ditherWrite: dither.New(),
		emitPeak:    true,
	}
	if ps, ok := codecDrv.(interleave.PlanarSource); ok {
		h.planar = interleave.New(ps, info.Channels)
	}
	return h, nil
}

// Info returns a copy of the container's parsed/initialised header fields.
func (h *Handle) Info() container.Info { return h.info }

// Params returns the current sample-conversion parameters.
func (h *Handle) Params() codec.Params { return h.params }

// SetParams installs new sample-conversion parameters (spec §6's
// SFC_SET_NORM_FLOAT/SFC_SET_NORM_DOUBLE/SFC_SET_SCALE_INT_FLOAT_WRITE/
// SFC_SET_CLIPPING). Every codec driver copies its Params at
// construction, so SetParams changes what Params returns but not how the
// bound codec converts samples.
func (h *Handle) SetParams(p codec.Params) { h.params = p }

// Tracker returns the shared peak tracker, or nil if the container opened
// with zero channels (no tracking possible).
func (h *Handle) Tracker() *peak.Tracker { return h.tracker }

// DitherRead/DitherWrite expose the dither stages the command interface
// toggles (spec §6's SFC_SET_DITHER_ON_READ/WRITE).
func (h *Handle) DitherRead() *dither.Stage  { return h.ditherRead }
func (h *Handle) DitherWrite() *dither.Stage { return h.ditherWrite }

// Index exposes the bound container's chunk index for unknown-chunk
// pass-through.
func (h *Handle) Index() *chunkindex.Index { return h.container.Index() }

// Frames returns the running frame cursor.
func (h *Handle) Frames() int64 { return h.frames }

// SetEmitPeak toggles whether Close passes the peak tracker to the
// container's WriteTailer (spec §6's SFC_SET_ADD_PEAK_CHUNK).
func (h *Handle) SetEmitPeak(b bool) { h.emitPeak = b }

func (h *Handle) ReadShort(buf []int16) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.ReadShort(buf)
	h.advanceFrames(n)
	return n, err
}

func (h *Handle) ReadInt(buf []int32) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.ReadInt(buf)
	h.advanceFrames(n)
	return n, err
}

func (h *Handle) ReadFloat(buf []float32) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.ReadFloat(buf)
	h.advanceFrames(n)
	return n, err
}

func (h *Handle) ReadDouble(buf []float64) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.ReadDouble(buf)
	h.advanceFrames(n)
	if h.ditherRead.Enabled() {
		h.ditherRead.Apply(buf[:n], buf[:n])
	}
	return n, err
}

func (h *Handle) WriteShort(buf []int16) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.WriteShort(buf)
	h.advanceFrames(n)
	return n, err
}

func (h *Handle) WriteInt(buf []int32) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.WriteInt(buf)
	h.advanceFrames(n)
	return n, err
}

func (h *Handle) WriteFloat(buf []float32) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	n, err := h.codecDrv.WriteFloat(buf)
	h.advanceFrames(n)
	return n, err
}

func (h *Handle) WriteDouble(buf []float64) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	if h.ditherWrite.Enabled() {
		dst := make([]float64, len(buf))
		h.ditherWrite.Apply(dst, buf)
		buf = dst
	}
	n, err := h.codecDrv.WriteDouble(buf)
	h.advanceFrames(n)
	return n, err
}

// ReadPlanarFrames serves n interleaved frames starting at start through
// the interleave adapter, for codecs whose native storage is per-channel
// planar rather than sample-interleaved. It returns (nil, false) when the
// bound codec isn't planar, so callers fall back to the ordinary
// sample-typed Read* methods.
func (h *Handle) ReadPlanarFrames(start, n int) ([]int32, bool, error) {
	if h.planar == nil {
		return nil, false, nil
	}
	out, err := h.planar.ReadFrames(start, n)
	return out, true, err
}

// SeekFrame repositions both the frame cursor and the codec driver.
func (h *Handle) SeekFrame(frame int64) error {
	if h.closed {
		return ErrClosed
	}
	if err := h.codecDrv.SeekFrame(frame); err != nil {
		return err
	}
	h.frames = frame
	return nil
}

// UpdateHeader rewrites the container header in place with the current
// frame count, without closing the handle (spec §6's
// SFC_UPDATE_HEADER_NOW).
func (h *Handle) UpdateHeader() error {
	if h.closed {
		return ErrClosed
	}
	return h.container.WriteHeader(true, h.frames)
}

// Close flushes the codec (spec §3: partial ADPCM blocks must finish
// before the header is rewritten), calls the container's WriteTailer (a
// no-op in every driver), finalises the header with the real frame count,
// and releases the container.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	var firstErr error
	if err := h.codecDrv.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if h.mode != container.Read {
		tracker := h.tracker
		if !h.emitPeak {
			tracker = nil
		}
		if err := h.container.WriteTailer(tracker); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := h.container.WriteHeader(true, h.frames); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := h.container.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.stream.Unref(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (h *Handle) advanceFrames(n int) {
	if h.info.Channels <= 0 {
		return
	}
	h.frames += int64(n / h.info.Channels)
}
