/*
NAME
  sndfile_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package sndfile

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wavecore/sndfile/internal/byteio"
)

func TestWriteThenReadRoundTripRaw(t *testing.T) {
	m := byteio.NewMem(nil)

	f, err := Open(m, Write, Info{
		Container:  ContainerRaw,
		Codec:      CodecPCM16,
		Endian:     EndianLittle,
		SampleRate: 44100,
		Channels:   2,
	}, nil)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	want := []int16{1, -1, 100, -100, 32000, -32000}
	if n, err := f.WriteShort(want); err != nil || n != len(want) {
		t.Fatalf("WriteShort: n=%d err=%v", n, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(write): %v", err)
	}

	f2, err := Open(m, Read, Info{
		Container:  ContainerRaw,
		Codec:      CodecPCM16,
		Endian:     EndianLittle,
		SampleRate: 44100,
		Channels:   2,
	}, nil)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	defer f2.Close()

	got := make([]int16, len(want))
	n, err := f2.ReadShort(got)
	if err != nil {
		t.Fatalf("ReadShort: %v", err)
	}
	if n != len(want) {
		t.Fatalf("ReadShort n = %d, want %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
	if f2.Frames() != int64(len(want)/2) {
		t.Errorf("Frames = %d, want %d", f2.Frames(), len(want)/2)
	}
}

func TestWavRoundTripFloat(t *testing.T) {
	m := byteio.NewMem(nil)

	f, err := Open(m, Write, Info{
		Container:  ContainerWAV,
		Codec:      CodecFloat,
		Endian:     EndianLittle,
		SampleRate: 48000,
		Channels:   1,
	}, nil)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}

	want := []float32{0, 0.5, -0.5, 1, -1}
	if _, err := f.WriteFloat(want); err != nil {
		t.Fatalf("WriteFloat: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(write): %v", err)
	}

	f2, err := Open(m, Read, Info{Container: ContainerWAV}, nil)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	defer f2.Close()

	info := f2.Info()
	wantInfo := Info{
		Container:  ContainerWAV,
		Codec:      CodecFloat,
		Endian:     EndianLittle,
		SampleRate: 48000,
		Channels:   1,
		Frames:     int64(len([]float32{0, 0.5, -0.5, 1, -1})),
	}
	if diff := cmp.Diff(wantInfo, info); diff != "" {
		t.Errorf("Info mismatch (-want +got):\n%s", diff)
	}

	got := make([]float32, len(want))
	if _, err := f2.ReadFloat(got); err != nil {
		t.Fatalf("ReadFloat: %v", err)
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOpenUnrecognisedContainer(t *testing.T) {
	m := byteio.NewMem(nil)
	_, err := Open(m, Write, Info{Container: 9999, Codec: CodecPCM16}, nil)
	if err == nil {
		t.Fatal("expected error for unrecognised container")
	}
	se, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if se.Code != ErrUnrecognisedFormat {
		t.Errorf("Code = %v, want ErrUnrecognisedFormat", se.Code)
	}
}

func TestCommandSetClipping(t *testing.T) {
	m := byteio.NewMem(nil)
	f, err := Open(m, Write, Info{
		Container:  ContainerRaw,
		Codec:      CodecPCM16,
		Endian:     EndianLittle,
		SampleRate: 8000,
		Channels:   1,
	}, nil)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}
	defer f.Close()

	if _, err := f.Command(CmdSetClipping, false); err != nil {
		t.Fatalf("Command(CmdSetClipping): %v", err)
	}
	if _, err := f.Command(CmdSetAddPeakChunk, false); err != nil {
		t.Fatalf("Command(CmdSetAddPeakChunk): %v", err)
	}
}
