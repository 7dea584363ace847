/*
NAME
  imaadpcm_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package imaadpcm

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

func TestMonoRoundTripApproximates(t *testing.T) {
	const samplesPerBlock = 8
	const blockAlign = 4 + (samplesPerBlock-1+1)/2 // header + nibbles, rounded up

	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, blockAlign, samplesPerBlock, codec.DefaultParams(), nil)

	want := []int16{0, 1000, 2000, 1500, 500, -500, -1500, -2000}
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
	if got[0] != want[0] {
		t.Errorf("first sample (header-coded) = %d, want %d", got[0], want[0])
	}
	for i := 1; i < len(want); i++ {
		diff := int(got[i]) - int(want[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 1500 {
			t.Errorf("sample %d: got %d, want ~%d (drifted %d)", i, got[i], want[i], diff)
		}
	}
}
