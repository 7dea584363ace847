/*
NAME
  pvf_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package pvf

import (
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func TestWriteThenReadRoundTripsHeader(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 22050, 2, format.CodecPCM16, format.EndianBig)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	payload := make([]byte, 7*info.BlockAlign)
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 7); err != nil {
		t.Fatalf("WriteHeader(finalize): %v", err)
	}

	d2 := New(s)
	info2, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info2.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", info2.SampleRate)
	}
	if info2.Channels != 2 {
		t.Errorf("Channels = %d, want 2", info2.Channels)
	}
	if info2.Frames != 7 {
		t.Errorf("Frames = %d, want 7", info2.Frames)
	}
}

func TestBadMagicRejected(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem([]byte("NOPE\n8 8000 16\n")))
	d := New(s)
	if _, err := d.Open(container.Read, 0, 0, 0, format.EndianFile); err != ErrNoPVF1 {
		t.Errorf("Open() error = %v, want ErrNoPVF1", err)
	}
}
