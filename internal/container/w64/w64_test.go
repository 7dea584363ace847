/*
NAME
  w64_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package w64

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestWriteThenReadRoundTripsHeader(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 44100, 1, format.CodecPCM16, format.EndianLittle)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	payload := make([]byte, 12*info.BlockAlign)
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 12); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", info2.SampleRate)
	}
	if info2.Frames != 12 {
		t.Errorf("Frames = %d, want 12", info2.Frames)
	}
}
