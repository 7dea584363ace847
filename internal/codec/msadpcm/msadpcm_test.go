/*
NAME
  msadpcm_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package msadpcm

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

func TestMonoRoundTripApproximates(t *testing.T) {
	const samplesPerBlock = 8
	const blockAlign = headerLen + (samplesPerBlock-2+1)/2

	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, blockAlign, samplesPerBlock, codec.DefaultParams(), nil)

	want := []int16{0, 500, 1000, 1500, 1000, 500, 0, -500}
	if _, err := c.WriteShort(want); err != nil {
		t.Fatalf("WriteShort: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c.SeekFrame(0)
	got := make([]int16, len(want))
	if _, err := c.ReadShort(got); err != nil {
		t.Fatalf("ReadShort: %v", err)
	}
	for i := range want {
		if i < 2 {
			if got[i] != want[i] {
				t.Errorf("seed sample %d: got %d, want %d", i, got[i], want[i])
			}
			continue
		}
		diff := int(got[i]) - int(want[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 2000 {
			t.Errorf("sample %d: got %d, want ~%d (drifted %d)", i, got[i], want[i], diff)
		}
	}
}
