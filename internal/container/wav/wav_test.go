/*
NAME
  wav_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package wav

import (
	"math"
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
	"github.com/wavecore/sndfile/internal/container"
	"github.com/wavecore/sndfile/internal/format"
)

func f32le(v float32) []byte {
	bits := math.Float32bits(v)
	return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func TestWriteThenReadRoundTripsHeader(t *testing.T) {
	s := byteio.NewVirtual(byteio.NewMem(nil))
	d := New(s)

	info, err := d.Open(container.Write, 44100, 2, format.CodecPCM16, format.EndianLittle)
	if err != nil {
		t.Fatalf("Open(write): %v", err)
	}
	if info.DataOffset != 44 {
		t.Fatalf("DataOffset = %d, want 44", info.DataOffset)
	}

	// Write 10 stereo frames of 16-bit PCM data directly through the stream.
	payload := make([]byte, 10*info.BlockAlign)
	for i := range payload {
		payload[i] = byte(i)
	}
	if _, err := s.Seek(info.DataOffset, byteio.WhenceSet); err != nil {
		t.Fatalf("seek to data: %v", err)
	}
	if _, err := s.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := d.WriteHeader(true, 10); err != nil {
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
	if info2.Channels != 2 {
		t.Errorf("Channels = %d, want 2", info2.Channels)
	}
	if info2.Format.Codec() != format.CodecPCM16 {
		t.Errorf("Codec = %v, want CodecPCM16", info2.Format.Codec())
	}
	if info2.Frames != 10 {
		t.Errorf("Frames = %d, want 10", info2.Frames)
	}
	if info2.DataOffset != 44 {
		t.Errorf("DataOffset = %d, want 44", info2.DataOffset)
	}
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

// TestUnrecognisedChunkPassesThroughIndex builds a RIFF/WAVE file by hand
// with a foreign "LIST" chunk wedged between fmt and data, and checks the
// driver both skips over it correctly and records it for pass-through.
func TestUnrecognisedChunkPassesThroughIndex(t *testing.T) {
	var buf []byte
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, le32(0)...) // patched below
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le16(1)...)    // PCM
	buf = append(buf, le16(1)...)    // mono
	buf = append(buf, le32(8000)...) // sample rate
	buf = append(buf, le32(16000)...)
	buf = append(buf, le16(2)...)  // block align
	buf = append(buf, le16(16)...) // bits per sample

	buf = append(buf, []byte("LIST")...)
	buf = append(buf, le32(4)...)
	buf = append(buf, []byte("abcd")...)

	dataPayload := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	buf = append(buf, []byte("data")...)
	buf = append(buf, le32(uint32(len(dataPayload)))...)
	buf = append(buf, dataPayload...)

	riffSize := uint32(len(buf) - 8)
	copy(buf[4:8], le32(riffSize))

	s := byteio.NewVirtual(byteio.NewMem(buf))

	d2 := New(s)
	info, err := d2.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if info.Frames != 4 {
		t.Errorf("Frames = %d, want 4", info.Frames)
	}
	if _, ok := d2.Index().FindReadChunkByID([]byte("LIST")); !ok {
		t.Errorf("LIST chunk not recorded in read index")
	}
}

// TestOpenParsesExistingPeakChunk builds a RIFF/WAVE file by hand with a
// PEAK chunk already present ahead of data, and checks the driver parses
// it into Info.PeakChunk rather than leaving it to be skipped.
func TestOpenParsesExistingPeakChunk(t *testing.T) {
	var buf []byte
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, le32(0)...) // patched below
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le16(1)...)    // PCM
	buf = append(buf, le16(2)...)    // stereo
	buf = append(buf, le32(8000)...) // sample rate
	buf = append(buf, le32(32000)...)
	buf = append(buf, le16(4)...)  // block align
	buf = append(buf, le16(16)...) // bits per sample

	le64 := func(v uint64) []byte {
		return []byte{
			byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
			byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
		}
	}

	buf = append(buf, []byte("PEAK")...)
	peakBody := []byte{}
	peakBody = append(peakBody, le32(1)...) // version
	peakBody = append(peakBody, le32(0)...) // timestamp
	peakBody = append(peakBody, f32le(0.5)...)
	peakBody = append(peakBody, le64(12345)...)
	peakBody = append(peakBody, f32le(0.5)...)
	peakBody = append(peakBody, le64(12345)...)
	buf = append(buf, le32(uint32(len(peakBody)))...)
	buf = append(buf, peakBody...)

	dataPayload := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	buf = append(buf, []byte("data")...)
	buf = append(buf, le32(uint32(len(dataPayload)))...)
	buf = append(buf, dataPayload...)

	riffSize := uint32(len(buf) - 8)
	copy(buf[4:8], le32(riffSize))

	s := byteio.NewVirtual(byteio.NewMem(buf))

	d := New(s)
	info, err := d.Open(container.Read, 0, 0, 0, format.EndianFile)
	if err != nil {
		t.Fatalf("Open(read): %v", err)
	}
	if len(info.PeakChunk) != 2 {
		t.Fatalf("PeakChunk length = %d, want 2", len(info.PeakChunk))
	}
	for ch, pc := range info.PeakChunk {
		if pc.Value != 0.5 {
			t.Errorf("channel %d Value = %v, want 0.5", ch, pc.Value)
		}
		if pc.Position != 12345 {
			t.Errorf("channel %d Position = %v, want 12345", ch, pc.Position)
		}
	}
}
