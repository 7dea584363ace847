/*
NAME
  raw_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package raw

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestOpenWriteThenReadNoHeader(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 44100, 2, format.CodecPCM16, format.EndianLittle)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}
	if info.DataOffset != 0 {
		t.Errorf("DataOffset = %d, want 0", info.DataOffset)
	}

	payload := make([]byte, 10*info.BlockAlign)
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 10); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 44100, 2, format.CodecPCM16, format.EndianLittle)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.Frames != 10 {
		t.Errorf("Frames = %d, want 10", info2.Frames)
	}
}
