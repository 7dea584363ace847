/*
NAME
  mat4_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package mat4

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestWriteThenReadRoundTripsHeader(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 8000, 2, format.CodecPCM16, format.EndianLittle)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	payload := make([]byte, 5*info.BlockAlign)
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 5); err != nil {
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
	if info2.Channels != 2 {
		t.Errorf("Channels = %d, want 2", info2.Channels)
	}
	if info2.Frames != 5 {
		t.Errorf("Frames = %d, want 5", info2.Frames)
	}
	if info2.Format.Endian() != format.EndianLittle {
		t.Errorf("Endian = %v, want little", info2.Format.Endian())
	}
}

func TestWriteThenReadBigEndian(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 44100, 1, format.CodecDouble, format.EndianBig)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}
	payload := make([]byte, 3*info.BlockAlign)
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 3); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.Format.Endian() != format.EndianBig {
		t.Errorf("Endian = %v, want big", info2.Format.Endian())
	}
	if info2.Format.Codec() != format.CodecDouble {
		t.Errorf("Codec = %v, want CodecDouble", info2.Format.Codec())
	}
}

func TestOpenReadBadMarker(t *testing.T) {
	mem := byteio.NewMem([]byte{0, 0, 0, 0xFF, 0, 0, 0, 0})
	s := byteio.NewVirtual(mem)
	d := New(s)

	if _, err := d.Open(container.Read, 0, 0, 0, format.EndianFile); err != ErrBadMarker {
		t.Fatalf("Open(read) err = %v, want ErrBadMarker", err)
	}
}
