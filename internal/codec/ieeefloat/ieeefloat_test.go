/*
NAME
  ieeefloat_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package ieeefloat

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
	"github.com/wavecore/sndfile/internal/endian"
)

func TestRoundTripSingle(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 2, Single, endian.Little, codec.DefaultParams(), nil)

	want := []float64{1.0, -1.0, 0.5, -0.25}
	if _, err := c.WriteDouble(want); err != nil {
		t.Fatalf("WriteDouble: %v", err)
	}
	c.SeekFrame(0)
	got := make([]float64, len(want))
	if _, err := c.ReadDouble(got); err != nil {
		t.Fatalf("ReadDouble: %v", err)
	}
	for i := range want {
		diff := got[i] - want[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-6 {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRoundTripDoubleBigEndian(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, Double, endian.Big, codec.DefaultParams(), nil)

	want := []float64{0.123456789, -0.987654321}
	if _, err := c.WriteDouble(want); err != nil {
		t.Fatalf("WriteDouble: %v", err)
	}
	c.SeekFrame(0)
	got := make([]float64, len(want))
	if _, err := c.ReadDouble(got); err != nil {
		t.Fatalf("ReadDouble: %v", err)
	}
	for i := range want {
		diff := got[i] - want[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWriteShortNormalisedFullScale(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, Single, endian.Little, codec.DefaultParams(), nil)

	if _, err := c.WriteShort([]int16{0x7FFF, -0x8000}); err != nil {
		t.Fatalf("WriteShort: %v", err)
	}
	c.SeekFrame(0)
	got := make([]float32, 2)
	if _, err := c.ReadFloat(got); err != nil {
		t.Fatalf("ReadFloat: %v", err)
	}
	if got[1] != -1.0 {
		t.Errorf("sample 1 = %v, want -1.0", got[1])
	}
}
