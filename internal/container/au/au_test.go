/*
NAME
  au_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package au

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestWriteThenReadRoundTripsHeader(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 8000, 1, format.CodecULaw, format.EndianBig)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	payload := make([]byte, 16*info.BlockAlign)
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 16); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", info2.SampleRate)
	}
	if info2.Frames != 16 {
		t.Errorf("Frames = %d, want 16", info2.Frames)
	}
	if info2.Format.Codec() != format.CodecULaw {
		t.Errorf("Codec = %v, want CodecULaw", info2.Format.Codec())
	}
}
