package cdb64

import "fmt"

// Iterator sequentially walks every record in a Reader's data section, in
// file (insertion) order. It does not consult any hash table and does not
// deduplicate: a key put twice is yielded twice. An Iterator is single-pass,
// finite, and holds exclusive cursor state, so it must not be shared across
// goroutines; a Reader may have several independent Iterators outstanding.
type Iterator struct {
	r      *Reader
	pos    uint64
	endPos uint64

	key, value []byte
	err        error
	done       bool
}

// Next reads the next key/value pair and advances the cursor one record.
// It returns false when the scan stops, either by reaching the end of the
// database or an error; call Err to distinguish the two. Once Next returns
// false, the Iterator is exhausted and further calls keep returning false.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.pos >= it.endPos {
		it.done = true
		return false
	}

	keyLen, valLen, err := readRecordHeader(it.r.src, it.pos)
	if err != nil {
		it.err = fmt.Errorf("cdb64: iterator: read record header: %w", err)
		it.done = true
		return false
	}

	recordSize := uint64(recordHeader) + uint64(keyLen) + uint64(valLen)
	if it.pos+recordSize > it.endPos {
		it.err = ErrCorrupt
		it.done = true
		return false
	}

	buf := make([]byte, keyLen+valLen)
	if _, err := it.r.src.ReadAt(buf, int64(it.pos+recordHeader)); err != nil {
		it.err = fmt.Errorf("cdb64: iterator: read record: %w", err)
		it.done = true
		return false
	}

	it.key = buf[:keyLen]
	it.value = buf[keyLen:]
	it.pos += recordSize
	return true
}

// Key returns the key of the record most recently produced by Next.
func (it *Iterator) Key() []byte { return it.key }

// Value returns the value of the record most recently produced by Next.
func (it *Iterator) Value() []byte { return it.value }

// Err returns the error, if any, that stopped iteration. A nil Err after
// Next returns false means the scan reached the end of the data section
// normally.
func (it *Iterator) Err() error { return it.err }
