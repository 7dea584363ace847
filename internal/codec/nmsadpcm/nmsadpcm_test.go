/*
NAME
  nmsadpcm_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package nmsadpcm

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/codec"
)

func TestWordsPerBlock(t *testing.T) {
	cases := map[Variant]int{NMS16: 21, NMS24: 31, NMS32: 41}
	for v, want := range cases {
		if got := v.WordsPerBlock(); got != want {
			t.Errorf("variant %d: WordsPerBlock() = %d, want %d", v, got, want)
		}
	}
}

func TestRoundTripApproximatesNMS32(t *testing.T) {
	m := byteio.NewMem(nil)
	s := byteio.NewVirtual(m)
	c := New(s, 0, NMS32, codec.DefaultParams(), nil)

	want := make([]int16, SamplesPerBlock)
	for i := range want {
		want[i] = int16(2000 * (i % 7 - 3))
	}
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
		if diff > 4000 {
			t.Errorf("sample %d: got %d, want ~%d (drifted %d)", i, got[i], want[i], diff)
		}
	}
}
