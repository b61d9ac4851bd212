package cdb64

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// tableEntry is one header slot: where bucket i's hash table lives and how
// many 16-byte slots it has. (0,0) means bucket i received no records.
type tableEntry struct {
	pos    uint64
	length uint64
}

// Reader serves point lookups and sequential iteration over a finalized
// cdb64 database. It is immutable after Open/New and safe to share across
// goroutines as long as the underlying source supports concurrent
// positional reads (an *os.File or an immutable mmap both qualify; a
// shared file cursor does not, which is why Reader uses io.ReaderAt
// throughout rather than Read+Seek).
type Reader struct {
	src       io.ReaderAt
	closer    io.Closer
	newHasher HasherFactory

	header  [256]tableEntry
	dataEnd uint64 // end of data section: min nonzero table pos, or headerSize if empty
}

// New opens a Reader over src, which may be a file, an in-memory buffer,
// or any other io.ReaderAt. New reads and caches the 4096-byte header; it
// performs no further validation; corrupt bucket pointers manifest as
// lookup errors only when followed.
func New(src io.ReaderAt, opts ...Option) (*Reader, error) {
	return newReader(src, nil, applyOptions(opts))
}

// Open opens a finalized cdb64 database file at path. With WithMmap, the
// file is memory-mapped instead of read with positioned I/O; both variants
// share the same lookup algorithm, differing only in how bytes are fetched
// at an offset.
func Open(path string, opts ...Option) (*Reader, error) {
	cfg := applyOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cdb64: open %q: %w", path, err)
	}

	if cfg.useMmap {
		m, err := newMmap(f)
		if err != nil {
			return nil, err
		}
		r, err := newReader(m, m, cfg)
		if err != nil {
			m.Close()
			return nil, err
		}
		return r, nil
	}

	r, err := newReader(f, f, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func newReader(src io.ReaderAt, closer io.Closer, cfg config) (*Reader, error) {
	r := &Reader{src: src, closer: closer, newHasher: cfg.newHasher}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	buf := make([]byte, headerSize)
	n, err := r.src.ReadAt(buf, 0)
	if err != nil && n < headerSize {
		return fmt.Errorf("cdb64: read header (%d of %d bytes): %w", n, headerSize, ErrInvalidFormat)
	}

	r.dataEnd = headerSize
	found := false
	for i := 0; i < 256; i++ {
		off := i * 16
		pos := getUint64(buf[off : off+8])
		length := getUint64(buf[off+8 : off+16])
		r.header[i] = tableEntry{pos: pos, length: length}
		if pos != 0 && (!found || pos < r.dataEnd) {
			r.dataEnd = pos
			found = true
		}
	}
	return nil
}

// lookup probes the bucket for key's hash and, on a hash and key match,
// returns the file offset of the value and its length. It performs every
// step of Get short of reading the value bytes, so Get and Has share it.
func (r *Reader) lookup(key []byte) (valueOff uint64, valueLen uint32, found bool, err error) {
	hash := hashKey(r.newHasher, key)
	bucket := hash & 0xff

	te := r.header[bucket]
	if te.length == 0 {
		return 0, 0, false, nil
	}

	start := (hash / 256) % te.length
	for i := uint64(0); i < te.length; i++ {
		slot := (start + i) % te.length
		slotHash, recPos, err := readTuple64(r.src, te.pos+slot*slotSize)
		if err != nil {
			return 0, 0, false, fmt.Errorf("cdb64: read hash slot: %w", err)
		}

		// An empty slot (record_pos == 0) terminates the probe chain. A
		// slot whose stored hash happens to be zero is not itself
		// ambiguous: occupancy is decided by record_pos, never slot_hash.
		if recPos == 0 {
			return 0, 0, false, nil
		}
		if slotHash != hash {
			continue
		}

		keyLen, valLen, err := readRecordHeader(r.src, recPos)
		if err != nil {
			return 0, 0, false, fmt.Errorf("cdb64: read record header: %w", err)
		}
		if uint64(keyLen) != uint64(len(key)) {
			continue
		}

		gotKey := make([]byte, keyLen)
		if _, err := r.src.ReadAt(gotKey, int64(recPos+recordHeader)); err != nil {
			return 0, 0, false, fmt.Errorf("cdb64: read key: %w", err)
		}
		if !bytes.Equal(gotKey, key) {
			continue
		}

		return recPos + recordHeader + uint64(keyLen), valLen, true, nil
	}

	return 0, 0, false, nil
}

// Get returns the value for key, or a nil slice if key was never written.
// If the same key was put more than once, Get returns the value whose
// record appears first in the file.
func (r *Reader) Get(key []byte) ([]byte, error) {
	off, length, found, err := r.lookup(key)
	if err != nil || !found {
		return nil, err
	}
	val := make([]byte, length)
	if _, err := r.src.ReadAt(val, int64(off)); err != nil {
		return nil, fmt.Errorf("cdb64: read value: %w", err)
	}
	return val, nil
}

// Has reports whether key exists, without reading its value.
func (r *Reader) Has(key []byte) (bool, error) {
	_, _, found, err := r.lookup(key)
	return found, err
}

// NumRecords returns the total number of records in the database,
// computed from the header alone (no data-section scan): table_len[i] is
// always exactly twice bucket i's occupancy.
func (r *Reader) NumRecords() int {
	n := 0
	for _, te := range r.header {
		n += int(te.length / 2)
	}
	return n
}

// Stats reports per-bucket occupancy and the size of the data section, for
// diagnosing skewed hash distributions.
type Stats struct {
	Records      int
	DataSize     uint64
	BucketCounts [256]int
}

// Stats computes a Stats snapshot from the cached header.
func (r *Reader) Stats() Stats {
	var s Stats
	s.DataSize = r.dataEnd - headerSize
	for i, te := range r.header {
		c := int(te.length / 2)
		s.BucketCounts[i] = c
		s.Records += c
	}
	return s
}

// Iter returns an Iterator over every stored record in file (insertion)
// order. The iterator borrows r; r remains usable, and multiple
// independent iterators may be created.
func (r *Reader) Iter() *Iterator {
	return &Iterator{
		r:      r,
		pos:    headerSize,
		endPos: r.dataEnd,
	}
}

// Close releases the file descriptor or mapping acquired by Open. Readers
// constructed with New over a caller-supplied io.ReaderAt are not closed
// by Close; the caller owns that source's lifecycle.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
