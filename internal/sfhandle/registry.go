/*
NAME
  registry.go

DESCRIPTION
  registry.go wires every container and codec package into the two small
  dispatch tables the handle needs: format.Container -> container.Driver
  constructor, and format.Codec -> codec.Driver constructor. This is the
  one place in the module that imports every leaf package, matching the
  teacher's pattern of a single format-dispatch table driving file open.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package sfhandle

import (
	"errors"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/codec/alac"
	"github.com/wavecore/sndfile/internal/codec/alaw"
	"github.com/wavecore/sndfile/internal/codec/dwvw"
	"github.com/wavecore/sndfile/internal/codec/flacdec"
	"github.com/wavecore/sndfile/internal/codec/g72x"
	"github.com/wavecore/sndfile/internal/codec/gsm610"
	"github.com/wavecore/sndfile/internal/codec/ieeefloat"
	"github.com/wavecore/sndfile/internal/codec/imaadpcm"
	"github.com/wavecore/sndfile/internal/codec/msadpcm"
	"github.com/wavecore/sndfile/internal/codec/nmsadpcm"
	"github.com/wavecore/sndfile/internal/codec/pcm"
	"github.com/wavecore/sndfile/internal/codec/ulaw"
	"github.com/wavecore/sndfile/internal/codec/voxadpcm"
	"github.com/wavecore/sndfile/internal/codec/vorbis"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/container/aiff"
	"github.com/wavecore/sndfile/internal/container/au"
	"github.com/wavecore/sndfile/internal/container/avr"
	"github.com/wavecore/sndfile/internal/container/caf"
	"github.com/wavecore/sndfile/internal/container/mat4"
	"github.com/wavecore/sndfile/internal/container/mpc2k"
	"github.com/wavecore/sndfile/internal/container/paf"
	"github.com/wavecore/sndfile/internal/container/pvf"
	"github.com/wavecore/sndfile/internal/container/raw"
	"github.com/wavecore/sndfile/internal/container/svx"
	"github.com/wavecore/sndfile/internal/container/w64"
	"github.com/wavecore/sndfile/internal/container/wav"
	"github.com/wavecore/sndfile/internal/container/wve"
	"github.com/wavecore/sndfile/internal/endian"
	"github.com/wavecore/sndfile/internal/format"
	"github.com/wavecore/sndfile/internal/peak"
)

// ErrUnrecognisedContainer is returned when a Format's container tag has no
// registered driver.
var ErrUnrecognisedContainer = errors.New("sfhandle: unrecognised container")

// newContainer returns a fresh, unopened driver for c bound to s. RF64
// shares WAV's driver: both are RIFF chunk-walkers, and wav.Driver already
// auto-detects the "RF64" magic and its ds64 chunk.
func newContainer(c format.Container, s *byteio.Stream) (container.Driver, error) {
	switch c {
	case format.ContainerWAV, format.ContainerRF64:
		return wav.New(s), nil
	case format.ContainerAIFF:
		return aiff.New(s), nil
	case format.ContainerCAF:
		return caf.New(s), nil
	case format.ContainerAU:
		return au.New(s), nil
	case format.ContainerW64:
		return w64.New(s), nil
	case format.ContainerAVR:
		return avr.New(s), nil
	case format.ContainerMPC2K:
		return mpc2k.New(s), nil
	case format.ContainerPVF:
		return pvf.New(s), nil
	case format.ContainerPAF:
		return paf.New(s), nil
	case format.ContainerWVE:
		return wve.New(s), nil
	case format.ContainerSVX:
		return svx.New(s), nil
	case format.ContainerMAT4:
		return mat4.New(s), nil
	case format.ContainerRaw:
		return raw.New(s), nil
	default:
		return nil, ErrUnrecognisedContainer
	}
}

// orderFor resolves a format.Endian request against the container's own
// natural byte order (spec §4.2's "file" default).
func orderFor(e format.Endian, natural endian.Order) endian.Order {
	switch e {
	case format.EndianLittle:
		return endian.Little
	case format.EndianBig:
		return endian.Big
	default:
		return natural
	}
}

// newCodec builds the codec.Driver for info, pulling whatever extra framing
// parameters (block alignment, bit width, variant, magic cookie) each
// codec's constructor needs out of the parsed/initialised container Info.
func newCodec(info *container.Info, s *byteio.Stream, p codec.Params, tracker *peak.Tracker) (codec.Driver, error) {
	natural := endian.Little
	if info.Format.Endian() == format.EndianBig {
		natural = endian.Big
	}
	order := orderFor(info.Format.Endian(), natural)
	channels := info.Channels

	switch info.Format.Codec() {
	case format.CodecPCMS8:
		return pcm.New(s, info.DataOffset, channels, 8, order, p, tracker), nil
	case format.CodecPCMU8:
		return pcm.New(s, info.DataOffset, channels, 8, order, p, tracker), nil
	case format.CodecPCM16:
		return pcm.New(s, info.DataOffset, channels, 16, order, p, tracker), nil
	case format.CodecPCM24:
		return pcm.New(s, info.DataOffset, channels, 24, order, p, tracker), nil
	case format.CodecPCM32:
		return pcm.New(s, info.DataOffset, channels, 32, order, p, tracker), nil
	case format.CodecULaw:
		return ulaw.New(s, info.DataOffset, channels, p, tracker), nil
	case format.CodecALaw:
		return alaw.New(s, info.DataOffset, channels, p, tracker), nil
	case format.CodecFloat:
		return ieeefloat.New(s, info.DataOffset, channels, ieeefloat.Single, order, p, tracker), nil
	case format.CodecDouble:
		return ieeefloat.New(s, info.DataOffset, channels, ieeefloat.Double, order, p, tracker), nil
	case format.CodecIMAADPCM:
		return imaadpcm.New(s, info.DataOffset, channels, info.BlockAlign, info.SamplesPerBlock, p, tracker), nil
	case format.CodecMSADPCM:
		return msadpcm.New(s, info.DataOffset, channels, info.BlockAlign, info.SamplesPerBlock, p, tracker), nil
	case format.CodecVoxADPCM:
		return voxadpcm.New(s, info.DataOffset, p, tracker), nil
	case format.CodecNMSADPCM16:
		return nmsadpcm.New(s, info.DataOffset, nmsadpcm.NMS16, p, tracker), nil
	case format.CodecNMSADPCM24:
		return nmsadpcm.New(s, info.DataOffset, nmsadpcm.NMS24, p, tracker), nil
	case format.CodecNMSADPCM32:
		return nmsadpcm.New(s, info.DataOffset, nmsadpcm.NMS32, p, tracker), nil
	case format.CodecG721:
		return g72x.New(s, info.DataOffset, g72x.G721), nil
	case format.CodecG723_24:
		return g72x.New(s, info.DataOffset, g72x.G723_24), nil
	case format.CodecG723_40:
		return g72x.New(s, info.DataOffset, g72x.G723_40), nil
	case format.CodecGSM610:
		return gsm610.New(s, info.DataOffset), nil
	case format.CodecDWVW12:
		return dwvw.New(s, info.DataOffset, channels, dwvw.W12, p, tracker), nil
	case format.CodecDWVW16:
		return dwvw.New(s, info.DataOffset, channels, dwvw.W16, p, tracker), nil
	case format.CodecDWVW24:
		return dwvw.New(s, info.DataOffset, channels, dwvw.W24, p, tracker), nil
	case format.CodecFLAC:
		return flacdec.New(s, info.DataOffset, channels, p, tracker)
	case format.CodecALAC:
		return alac.New(s, info.DataOffset, info.MagicCookie), nil
	case format.CodecVorbis:
		return vorbis.New(s, info.DataOffset), nil
	default:
		return nil, codec.ErrUnsupportedEncoding
	}
}
