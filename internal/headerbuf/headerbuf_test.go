/*
NAME
  headerbuf_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package headerbuf

import (
	"bytes"
	"testing"

	"github.com/wavecore/sndfile/internal/byteio"
)

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	n, err := w.Writef("em422", "RIFF", uint32(36), uint16(1), uint16(2))
	if err != nil {
		t.Fatalf("Writef: %v", err)
	}
	if n != 4+4+2+2 {
		t.Fatalf("Writef: wrote %d bytes, want %d", n, 12)
	}

	m := byteio.NewMem(w.Bytes())
	s := byteio.NewVirtual(m)
	r := NewReader(s)

	var marker uint32
	var size uint32
	var fmtTag, channels uint16
	if _, err := r.Readf("em422", &marker, &size, &fmtTag, &channels); err != nil {
		t.Fatalf("Readf: %v", err)
	}
	if marker != 0x52494646 { // "RIFF"
		t.Errorf("marker = %x, want RIFF", marker)
	}
	if size != 36 || fmtTag != 1 || channels != 2 {
		t.Errorf("got size=%d fmt=%d channels=%d", size, fmtTag, channels)
	}
}

func TestWriterDeferredTotal(t *testing.T) {
	w := NewWriter()
	var off int64
	if _, err := w.Writef("mt", "data", &off); err != nil {
		t.Fatalf("Writef: %v", err)
	}
	if off != 4 {
		t.Fatalf("deferred offset = %d, want 4", off)
	}
	if err := w.PatchUint64(off, 1234, 0); err != nil {
		t.Fatalf("PatchUint64: %v", err)
	}
	if got := w.Bytes()[4:12]; !bytes.Equal(got, []byte{0xd2, 0x04, 0, 0, 0, 0, 0, 0}) {
		t.Errorf("patched bytes = %x", got)
	}
}

func TestWriterPascalStringAndBlob(t *testing.T) {
	w := NewWriter()
	if _, err := w.Writef("pb", "hi", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Writef: %v", err)
	}
	want := []byte{2, 'h', 'i', 1, 2, 3}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got %v, want %v", w.Bytes(), want)
	}
}

func TestWriterSeekPatch(t *testing.T) {
	w := NewWriter()
	w.Writef("4", uint32(0))
	w.Writef("z", 10)
	if _, err := w.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	w.Writef("4", uint32(99))
	if w.Len() != 14 {
		t.Fatalf("Len() = %d, want 14 (seek-then-write must not grow the buffer)", w.Len())
	}
}
