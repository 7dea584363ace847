/*
NAME
  byteio_test.go

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

package byteio

import (
	"bytes"
	"testing"
)

func TestStreamReadWriteSeek(t *testing.T) {
	m := NewMem(nil)
	s := NewVirtual(m)

	data := []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit.")
	n, err := s.Write(data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(data) {
		t.Fatalf("Write: got %d bytes, want %d", n, len(data))
	}

	length, err := s.GetLength()
	if err != nil {
		t.Fatalf("GetLength: %v", err)
	}
	if length != int64(len(data)) {
		t.Fatalf("GetLength: got %d, want %d", length, len(data))
	}

	if _, err := s.Seek(0, WhenceSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, len(data))
	if _, err := s.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-trip mismatch:\ngot :%q\nwant:%q", got, data)
	}

	pos, err := s.Tell()
	if err != nil {
		t.Fatalf("Tell: %v", err)
	}
	if pos != int64(len(data)) {
		t.Errorf("Tell: got %d, want %d", pos, len(data))
	}
}

func TestStreamRefUnref(t *testing.T) {
	m := NewMem([]byte("abc"))
	s := NewVirtual(m)
	alias := s.Ref()
	if s.shared != alias.shared {
		t.Fatal("Ref did not alias the same underlying shared state")
	}
	if err := alias.Unref(); err != nil {
		t.Fatalf("Unref (alias): %v", err)
	}
	if err := s.Unref(); err != nil {
		t.Fatalf("Unref (original): %v", err)
	}
}

func TestStreamTruncateExtend(t *testing.T) {
	m := NewMem([]byte("0123456789"))
	s := NewVirtual(m)

	if err := s.SetLength(4); err != nil {
		t.Fatalf("SetLength (shrink): %v", err)
	}
	if got := string(m.Bytes()); got != "0123" {
		t.Errorf("shrink: got %q, want %q", got, "0123")
	}

	if err := s.SetLength(6); err != nil {
		t.Fatalf("SetLength (grow): %v", err)
	}
	if got := len(m.Bytes()); got != 6 {
		t.Errorf("grow: got len %d, want 6", got)
	}
}
