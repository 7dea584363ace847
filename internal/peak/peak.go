/*
NAME
  peak.go

DESCRIPTION
  peak.go implements the per-channel peak tracker (spec §4.8): a running
  max of absolute sample value plus the frame position at which it
  occurred, updated on every write and handed to the container's
  WriteTailer at close. No container driver writes a PEAK chunk from it;
  WAV and AIFF seed it from an existing PEAK chunk on read.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package peak implements the running per-channel peak tracker shared by
// every codec driver's write path.
package peak

// Channel is one channel's peak record.
type Channel struct {
	Value    float32
	Position int64 // frame index at which Value was observed
}

// Loc indicates where the PEAK chunk lives in the file.
type Loc int

const (
	LocStart Loc = iota
	LocEnd
)

// Tracker holds the running peak for every channel of one file handle.
type Tracker struct {
	Version   int32
	Timestamp int32 // or edit count, for CAF
	Loc       Loc
	Channels  []Channel
}

// New returns a Tracker with channels peaks initialised to zero.
func New(channels int) *Tracker {
	return &Tracker{Version: 1, Channels: make([]Channel, channels)}
}

// Update scans a buffer of native-width samples interleaved across
// t.Channels channels, starting at frame startFrame, and raises each
// channel's running peak per spec §4.8:
//
//	m := max over k in [c, N) step C of |sample[k]|
//	if m > channel[c].Value: channel[c] = {m, startFrame + argmax/C}
func (t *Tracker) Update(samples []float64, startFrame int64) {
	c := len(t.Channels)
	if c == 0 {
		return
	}
	for ch := 0; ch < c; ch++ {
		var max float64
		maxIdx := -1
		for k := ch; k < len(samples); k += c {
			v := samples[k]
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
				maxIdx = k
			}
		}
		if maxIdx < 0 {
			continue
		}
		if float32(max) > t.Channels[ch].Value {
			t.Channels[ch].Value = float32(max)
			t.Channels[ch].Position = startFrame + int64(maxIdx/c)
		}
	}
}

// Seed installs per-channel peaks parsed from an existing on-disk PEAK
// chunk (read-mode open), so a get-peak query reflects the file's stored
// values instead of a tracker that has never observed a write.
func (t *Tracker) Seed(channels []Channel) {
	n := len(channels)
	if n > len(t.Channels) {
		n = len(t.Channels)
	}
	copy(t.Channels[:n], channels[:n])
}

// Get returns the current peak value and position for channel ch.
func (t *Tracker) Get(ch int) (float32, int64) {
	if ch < 0 || ch >= len(t.Channels) {
		return 0, 0
	}
	return t.Channels[ch].Value, t.Channels[ch].Position
}
