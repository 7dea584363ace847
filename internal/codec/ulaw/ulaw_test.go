/*
NAME
  ulaw_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package ulaw

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

func TestEncodeDecodeApproximatesOriginal(t *testing.T) {
	for _, want := range []int16{0, 100, -100, 1000, -1000, 32000, -32000} {
		got := decodeTable[encodeSample(want)]
		diff := int(got) - int(want)
		if diff < 0 {
			diff = -diff
		}
		// mu-law is lossy; tolerate the quantisation step at this magnitude.
		if diff > 512 {
			t.Errorf("encode/decode(%d) = %d, drifted by %d", want, got, diff)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, 1, codec.DefaultParams(), nil)

	want := []int16{0, 1000, -1000, 32000}
	if _, err := c.WriteShort(want); err != nil {
		t.Fatalf("WriteShort: %v", err)
	}
	c.SeekFrame(0)
	got := make([]int16, len(want))
	if _, err := c.ReadShort(got); err != nil {
		t.Fatalf("ReadShort: %v", err)
	}
	for i := range want {
		diff := int(got[i]) - int(want[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 512 {
			t.Errorf("sample %d: got %d, want ~%d", i, got[i], want[i])
		}
	}
}
