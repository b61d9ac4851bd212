package cdb64

import (
	"errors"
	"fmt"
)

var (
	// ErrValueTooLarge is returned by Put when a key or value is longer
	// than 2^32-1 bytes.
	ErrValueTooLarge = errors.New("cdb64: key or value larger than 2^32-1 bytes")

	// ErrFinalized is returned by Put or PutAll when called after
	// Finalize/Close/Freeze has already run.
	ErrFinalized = errors.New("cdb64: writer already finalized")

	// ErrInvalidFormat is returned by Open/New when the source is too
	// short to hold a header. A Reader opened with WithMmap also returns
	// it, wrapped, when a slot, record or value read runs past the end of
	// the mapping. Other sources do not map such reads to
	// ErrInvalidFormat: the source's own error (for an *os.File, io.EOF)
	// is returned, wrapped.
	ErrInvalidFormat = errors.New("cdb64: invalid database format")

	// ErrCorrupt is returned by the iterator when a record's declared
	// length would cross into the hash-table region.
	ErrCorrupt = errors.New("cdb64: corrupt record crosses into hash table region")
)

func errShortWrite(what string, n, want int) error {
	return fmt.Errorf("cdb64: short write of %s: wrote %d bytes, want %d", what, n, want)
}
