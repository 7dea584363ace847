/*
NAME
  dither.go

DESCRIPTION
  dither.go implements the dither stage (spec §4.6): an optional write-path
  (and read-path stub) interposer that re-quantises oversized samples into
  the destination width. Every selectable mode is currently a pass-through,
  matching the source library's placeholder implementation — the surface
  exists so a future quantiser can be dropped in without changing any
  caller.

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package dither implements the (currently pass-through) sample
// requantisation stage installable on a file handle's read or write path.
package dither

// Mode selects a dither algorithm. Every mode below is a pass-through
// today; the type exists so callers can select and query a mode without
// the engine needing to break that contract later.
type Mode int

const (
	None Mode = iota
	Rectangular
	Triangular
	Gaussian
	WhiteNoise
)

// Stage holds the active dither mode for one direction (read or write) of
// a file handle.
type Stage struct {
	mode    Mode
	enabled bool
}

// New returns a disabled Stage.
func New() *Stage { return &Stage{} }

// Enable turns the stage on with the given mode.
func (s *Stage) Enable(m Mode) {
	s.mode = m
	s.enabled = true
}

// Disable turns the stage off, restoring pass-through behaviour.
func (s *Stage) Disable() { s.enabled = false }

// Mode returns the active mode (meaningful only if Enabled()).
func (s *Stage) Mode() Mode { return s.mode }

// Enabled reports whether the stage is currently installed.
func (s *Stage) Enabled() bool { return s.enabled }

// Apply copy-dithers src into dst (both float64 native-width samples).
// Every mode is a pass-through today (spec §4.6): the destination receives
// an exact copy of the source regardless of mode. dst must be at least
// len(src).
func (s *Stage) Apply(dst, src []float64) {
	copy(dst, src)
}
