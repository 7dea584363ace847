/*
NAME
  alaw_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package alaw

import "testing"

func TestEncodeDecodeApproximatesOriginal(t *testing.T) {
	for _, want := range []int16{0, 100, -100, 1000, -1000, 32000, -32000} {
		got := decodeTable[encodeSample(want)]
		diff := int(got) - int(want)
		if diff < 0 {
			diff = -diff
		}
		if diff > 512 {
			t.Errorf("encode/decode(%d) = %d, drifted by %d", want, got, diff)
		}
	}
}
