/*
NAME
  aiff_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package aiff

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestWriteThenReadRoundTripsHeader24Bit(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 48000, 2, format.CodecPCM24, format.EndianBig)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	payload := make([]byte, 20*info.BlockAlign)
	for i := range payload {
		payload[i] = byte(i)
	}
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 20); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", info2.SampleRate)
	}
	if info2.Channels != 2 {
		t.Errorf("Channels = %d, want 2", info2.Channels)
	}
	if info2.Format.Codec() != format.CodecPCM24 {
		t.Errorf("Codec = %v, want CodecPCM24", info2.Format.Codec())
	}
	if info2.Frames != 20 {
		t.Errorf("Frames = %d, want 20", info2.Frames)
	}
}
