/*
NAME
  paf_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package paf

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestWriteThenReadRoundTripsHeaderBigEndian(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 48000, 2, format.CodecPCM24, format.EndianBig)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}
	if info.DataOffset != headerLength {
		t.Fatalf("DataOffset = %d, want %d", info.DataOffset, headerLength)
	}

	payload := make([]byte, 6*info.BlockAlign)
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 6); err != nil {
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
	if info2.Frames != 6 {
		t.Errorf("Frames = %d, want 6", info2.Frames)
	}
	if info2.Format.Endian() != format.EndianBig {
		t.Errorf("Endian = %v, want EndianBig", info2.Format.Endian())
	}
}

func TestWriteThenReadRoundTripsHeaderLittleEndian(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	if _, err := d.Open(container.Write, 16000, 1, format.CodecPCM16, format.EndianLittle); err != nil {
		t.Fatalf("Open(write): %v", err)
	}
	if err := d.WriteHeader(true, 0); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.Format.Endian() != format.EndianLittle {
		t.Errorf("Endian = %v, want EndianLittle", info2.Format.Endian())
	}
}
