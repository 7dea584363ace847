/*
NAME
  voxadpcm_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package voxadpcm

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

func TestRoundTripApproximates12Bit(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, codec.DefaultParams(), nil)

	want := []int16{0, 2000, 4000, 6000, 4000, 2000, 0, -2000, -4000, -6000}
	if _, err := c.WriteShort(want); err != nil {
		t.Fatalf("WriteShort: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := c.SeekFrame(0); err != nil {
		t.Fatalf("SeekFrame: %v", err)
	}
	got := make([]int16, len(want))
	if _, err := c.ReadShort(got); err != nil {
		t.Fatalf("ReadShort: %v", err)
	}
	for i := range want {
		diff := int(got[i]) - int(want[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 3000 {
			t.Errorf("sample %d: got %d, want ~%d (drifted %d)", i, got[i], want[i], diff)
		}
	}
}

func TestSeekNonZeroUnsupported(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, codec.DefaultParams(), nil)
	if err := c.SeekFrame(10); err != codec.ErrSeekUnsupported {
		t.Errorf("SeekFrame(10) = %v, want ErrSeekUnsupported", err)
	}
}
