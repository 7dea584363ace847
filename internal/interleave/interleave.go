/*
NAME
  interleave.go

DESCRIPTION
  interleave.go implements the read-side interleave stage (spec §4.7): for
  codecs that store samples in planar, per-channel blocks on disk, it
  presents the data as interleaved frames to the caller by issuing one
  strided seek+read per channel and scattering the result into the
  caller's buffer. No codec in this module implements PlanarSource; PAF
  24-bit data is stored and read as plain interleaved PCM24.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package interleave adapts a planar-on-disk codec to the engine's
// interleaved-frame read API.
package interleave

// PlanarSource is implemented by a codec driver whose samples are stored
// on disk as one contiguous run per channel rather than interleaved
// frames. ReadChannel must seek independently for each channel.
type PlanarSource interface {
	// ReadChannel reads n consecutive native-width samples for channel ch
	// starting at frame index start, returning them as int32 (sign
	// extended from whatever the native width is).
	ReadChannel(ch int, start, n int) ([]int32, error)
}

// Stage installs itself only on the read path (spec §4.7).
type Stage struct {
	src      PlanarSource
	channels int
}

// New returns a Stage over src with the given channel count.
func New(src PlanarSource, channels int) *Stage {
	return &Stage{src: src, channels: channels}
}

// ReadFrames returns n interleaved frames (length n*channels) starting at
// frame index start, by reading each channel's planar run independently
// and scattering it into the interleaved result.
func (s *Stage) ReadFrames(start, n int) ([]int32, error) {
	out := make([]int32, n*s.channels)
	for ch := 0; ch < s.channels; ch++ {
		samples, err := s.src.ReadChannel(ch, start, n)
		if err != nil {
			return out, err
		}
		for i, v := range samples {
			out[i*s.channels+ch] = v
		}
	}
	return out, nil
}
