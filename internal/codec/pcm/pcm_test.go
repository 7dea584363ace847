/*
NAME
  pcm_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package pcm

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/endian"
)

func TestRoundTrip16(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 2, 16, endian.Little, codec.DefaultParams(), nil)

	want := []int16{0x7FFF, -0x8000, 100, -100}
	if _, err := c.WriteShort(want); err != nil {
		t.Fatalf("WriteShort: %v", err)
	}

	c.SeekFrame(0)
	got := make([]int16, len(want))
	n, err := c.ReadShort(got)
	if err != nil {
		t.Fatalf("ReadShort: %v", err)
	}
	if n != len(want) {
		t.Fatalf("ReadShort: got %d samples, want %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRoundTrip24(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, 24, endian.Big, codec.DefaultParams(), nil)

	want := []int32{0x7FFFFF00, -0x01000000} // low byte discarded on pack, must be zero
	if _, err := c.WriteInt(want); err != nil {
		t.Fatalf("WriteInt: %v", err)
	}
	c.SeekFrame(0)
	got := make([]int32, len(want))
	if _, err := c.ReadInt(got); err != nil {
		t.Fatalf("ReadInt: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestNormalisedFloatFullScale(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, 16, endian.Little, codec.DefaultParams(), nil)

	if _, err := c.WriteShort([]int16{0x7FFF, -0x8000}); err != nil {
		t.Fatalf("WriteShort: %v", err)
	}
	c.SeekFrame(0)
	got := make([]float32, 2)
	if _, err := c.ReadFloat(got); err != nil {
		t.Fatalf("ReadFloat: %v", err)
	}
	if got[0] <= 0.99 || got[0] > 1.0001 {
		t.Errorf("sample 0 = %v, want ~1.0", got[0])
	}
	if got[1] != -1.0 {
		t.Errorf("sample 1 = %v, want -1.0", got[1])
	}
}

func TestNeedsEndianSwap(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	little := New(s, 0, 1, 16, endian.Little, codec.DefaultParams(), nil)
	big := New(s, 0, 1, 16, endian.Big, codec.DefaultParams(), nil)
	if little.NeedsEndianSwap() {
		t.Error("little-endian codec should not need swap")
	}
	if !big.NeedsEndianSwap() {
		t.Error("big-endian codec should need swap")
	}
}
