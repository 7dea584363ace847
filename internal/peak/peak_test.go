/*
NAME
  peak_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package peak

import "testing"

func TestTrackerUpdate(t *testing.T) {
	tr := New(2)
	// Stereo: L R L R ... frame 0 at index 0.
	tr.Update([]float64{0.1, -0.2, 0.5, 0.3, -0.05, 0.9}, 0)

	v, pos := tr.Get(0)
	if v != 0.5 || pos != 1 {
		t.Errorf("channel 0: got value=%v pos=%v, want 0.5 @ frame 1", v, pos)
	}
	v, pos = tr.Get(1)
	if v != 0.9 || pos != 2 {
		t.Errorf("channel 1: got value=%v pos=%v, want 0.9 @ frame 2", v, pos)
	}
}

func TestTrackerUpdateDoesNotLowerPeak(t *testing.T) {
	tr := New(1)
	tr.Update([]float64{0.8}, 0)
	tr.Update([]float64{0.1}, 1)
	v, pos := tr.Get(0)
	if v != 0.8 || pos != 0 {
		t.Errorf("got value=%v pos=%v, want peak to remain 0.8 @ frame 0", v, pos)
	}
}
