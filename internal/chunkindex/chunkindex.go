/*
NAME
  chunkindex.go

DESCRIPTION
  chunkindex.go implements the chunk index (spec §4.3): an ordered,
  de-duplicated log of read-chunks (id, file offset, length) and a separate
  log of caller-supplied write-chunks to be emitted at header-write time.
  This is the substrate for the library's "custom chunk pass-through".

AUTHOR
  wavecore contributors

LICENSE
  MIT License. See LICENSE file for details.
*/

// Package chunkindex tracks the chunks encountered while parsing a
// container header (for later on-demand retrieval) and the chunks a
// caller wants emitted at write time.
package chunkindex

// ReadChunk is one entry in the read-side index: a chunk encountered while
// parsing, identified by its raw id bytes (up to 16 bytes, to accommodate
// CAF's free-form and W64's GUID-based ids) plus its absolute byte offset
// and payload length in the source stream.
type ReadChunk struct {
	ID     []byte
	Offset int64
	Length int64
	hash   uint64
}

// WriteChunk is one entry in the write-side index: an owned copy of a
// caller-supplied blob to be emitted at header-write time.
type WriteChunk struct {
	ID      []byte
	Payload []byte
	hash    uint64
}

// Index holds both logs for one file handle.
type Index struct {
	read  []ReadChunk
	write []WriteChunk
	seen  map[uint64]bool
}

// New returns an empty Index.
func New() *Index { return &Index{seen: make(map[uint64]bool)} }

func hashID(id []byte, offset int64) uint64 {
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	for _, b := range id {
		h ^= uint64(b)
		h *= 1099511628211
	}
	h ^= uint64(offset)
	h *= 1099511628211
	return h
}

// StoreReadChunk appends a read-chunk entry to the ordered log, skipping an
// exact (id, offset) duplicate.
func (idx *Index) StoreReadChunk(id []byte, offset, length int64) {
	h := hashID(id, offset)
	if idx.seen[h] {
		return
	}
	idx.seen[h] = true
	cp := make([]byte, len(id))
	copy(cp, id)
	idx.read = append(idx.read, ReadChunk{ID: cp, Offset: offset, Length: length, hash: h})
}

// FindReadChunkByID returns the first read-chunk whose id matches id
// exactly, and whether one was found.
func (idx *Index) FindReadChunkByID(id []byte) (ReadChunk, bool) {
	for _, c := range idx.read {
		if string(c.ID) == string(id) {
			return c, true
		}
	}
	return ReadChunk{}, false
}

// ReadChunks returns every read-chunk entry logged so far, in encounter
// order.
func (idx *Index) ReadChunks() []ReadChunk {
	return idx.read
}

// Iterator walks the read-chunk log from the beginning.
type Iterator struct {
	idx *Index
	pos int
}

// NewIterator returns an Iterator positioned before the first entry.
func (idx *Index) NewIterator() *Iterator { return &Iterator{idx: idx, pos: -1} }

// Next advances the iterator and returns the entry at the new position, or
// ok=false once the log is exhausted (spec's "end signalled by null").
func (it *Iterator) Next() (ReadChunk, bool) {
	it.pos++
	if it.pos >= len(it.idx.read) {
		return ReadChunk{}, false
	}
	return it.idx.read[it.pos], true
}

// SaveWriteChunk appends an owned copy of a caller-supplied chunk to the
// write-side log, to be emitted the next time the container's write_header
// runs.
func (idx *Index) SaveWriteChunk(id []byte, payload []byte) {
	idCp := make([]byte, len(id))
	copy(idCp, id)
	payloadCp := make([]byte, len(payload))
	copy(payloadCp, payload)
	idx.write = append(idx.write, WriteChunk{ID: idCp, Payload: payloadCp, hash: hashID(idCp, int64(len(idx.write)))})
}

// WriteChunks returns every pending write-chunk, in the order they were
// added.
func (idx *Index) WriteChunks() []WriteChunk {
	return idx.write
}
