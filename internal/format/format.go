/*
NAME
  format.go

DESCRIPTION
  format.go defines the bit-packed format descriptor (spec §3: "format
  descriptor (container tag | codec tag | endian tag)") every open handle
  carries, plus the container/codec tag enumerations the container and
  codec driver registries dispatch on.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package format defines the bit-packed format descriptor shared by every
// container and codec driver.
package format

// Container identifies the outer file format.
type Container uint32

const (
	ContainerWAV Container = iota + 1
	ContainerAIFF
	ContainerAU
	ContainerCAF
	ContainerW64
	ContainerRF64
	ContainerPAF
	ContainerAVR
	ContainerMPC2K
	ContainerPVF
	ContainerWVE
	ContainerSVX
	ContainerMAT4
	ContainerRaw
)

// Codec identifies the sample encoding within a container.
type Codec uint32

const (
	CodecPCMS8 Codec = iota + 1
	CodecPCMU8
	CodecPCM16
	CodecPCM24
	CodecPCM32
	CodecFloat
	CodecDouble
	CodecULaw
	CodecALaw
	CodecIMAADPCM
	CodecMSADPCM
	CodecVoxADPCM
	CodecNMSADPCM16
	CodecNMSADPCM24
	CodecNMSADPCM32
	CodecG721
	CodecG723_24
	CodecG723_40
	CodecGSM610
	CodecDWVW12
	CodecDWVW16
	CodecDWVW24
	CodecFLAC
	CodecALAC
	CodecVorbis
)

// Endian selects the byte order samples and header fields are stored in.
type Endian uint8

const (
	EndianFile Endian = iota // container's natural/default endianness
	EndianLittle
	EndianBig
	EndianCPU
)

// Format packs container | codec | endian into the single descriptor spec
// §3 assigns to a handle, using non-overlapping bit fields so the three
// components can be combined and extracted independently.
type Format uint64

const (
	containerShift = 40
	codecShift     = 8
	endianShift    = 0

	containerMask = 0xFFFFFF << containerShift
	codecMask     = 0xFFFFFFFF << codecShift
	endianMask    = 0xFF << endianShift
)

// NewFormat packs a container tag, codec tag and endian tag into a single
// descriptor.
func NewFormat(c Container, cd Codec, e Endian) Format {
	return Format(uint64(c)<<containerShift | uint64(cd)<<codecShift | uint64(e)<<endianShift)
}

func (f Format) Container() Container { return Container((uint64(f) & containerMask) >> containerShift) }
func (f Format) Codec() Codec         { return Codec((uint64(f) & codecMask) >> codecShift) }
func (f Format) Endian() Endian       { return Endian((uint64(f) & endianMask) >> endianShift) }
