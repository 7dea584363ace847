/*
NAME
  dwvw_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package dwvw

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

func TestMonoRoundTripApproximates(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, W16, codec.DefaultParams(), nil)

	want := []int16{0, 100, 200, 150, 50, -50, -150, -200, 10000, -10000}
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
	n, err := c.ReadShort(got)
	if err != nil {
		t.Fatalf("ReadShort: %v", err)
	}
	if n < len(want) {
		t.Fatalf("ReadShort: got %d samples, want at least %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
