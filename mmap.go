package cdb64

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// mmapReaderAt is a read-only view of a file's contents via mmap, exposed
// as an io.ReaderAt so Reader's lookup algorithm runs unmodified over it:
// the file-backed and mmap-backed readers differ only in the "read N bytes
// at offset O" primitive, not in the lookup algorithm itself.
type mmapReaderAt struct {
	data []byte
	file *os.File
}

func newMmap(f *os.File) (*mmapReaderAt, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cdb64: stat: %w", err)
	}
	size := stat.Size()
	if size < headerSize {
		return nil, fmt.Errorf("cdb64: file size %d < header size %d: %w", size, headerSize, ErrInvalidFormat)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("cdb64: mmap: %w", err)
	}

	return &mmapReaderAt{data: data, file: f}, nil
}

// ReadAt implements io.ReaderAt over the mapped bytes. Integers are loaded
// byte-by-byte and decoded little-endian by the shared codec (codec.go)
// rather than aliased through a *uint64 pointer, so this is correct on
// big-endian hosts too.
func (m *mmapReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("cdb64: negative offset %d: %w", off, ErrInvalidFormat)
	}
	if off >= int64(len(m.data)) {
		return 0, fmt.Errorf("cdb64: offset %d past end of mapping (%d bytes): %w", off, len(m.data), ErrInvalidFormat)
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("cdb64: short read at offset %d: got %d of %d bytes: %w", off, n, len(p), ErrInvalidFormat)
	}
	return n, nil
}

// Close unmaps the file and closes the underlying descriptor.
func (m *mmapReaderAt) Close() error {
	var errs []error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil && !errors.Is(err, syscall.EINVAL) {
			errs = append(errs, fmt.Errorf("cdb64: munmap: %w", err))
		}
		m.data = nil
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cdb64: close: %w", err))
		}
		m.file = nil
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
