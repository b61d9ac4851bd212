package cdb64

import (
	"encoding/binary"
	"io"
)

const (
	headerSize   = 256 * 16 // 256 entries, each (table_pos u64, table_len u64)
	slotSize     = 16       // (slot_hash u64, record_pos u64)
	recordHeader = 8        // (key_len u32, value_len u32)
)

// readTuple64 reads two little-endian u64s at offset off from r.
func readTuple64(r io.ReaderAt, off uint64) (first, second uint64, err error) {
	var buf [slotSize]byte
	n, err := r.ReadAt(buf[:], int64(off))
	if err != nil {
		if n == slotSize {
			// Some ReaderAt implementations (e.g. bytes.Reader) return
			// io.EOF alongside a full read at the very end of the data;
			// treat a full read as success regardless.
		} else {
			return 0, 0, err
		}
	}
	first = binary.LittleEndian.Uint64(buf[:8])
	second = binary.LittleEndian.Uint64(buf[8:])
	return first, second, nil
}

// writeTuple64 writes two little-endian u64s to w.
func writeTuple64(w io.Writer, first, second uint64) error {
	var buf [slotSize]byte
	binary.LittleEndian.PutUint64(buf[:8], first)
	binary.LittleEndian.PutUint64(buf[8:], second)
	n, err := w.Write(buf[:])
	if err != nil {
		return err
	}
	if n != slotSize {
		return errShortWrite("tuple", n, slotSize)
	}
	return nil
}

// readRecordHeader reads the (key_len, value_len) pair at offset off.
func readRecordHeader(r io.ReaderAt, off uint64) (keyLen, valLen uint32, err error) {
	var buf [recordHeader]byte
	n, err := r.ReadAt(buf[:], int64(off))
	if err != nil && n != recordHeader {
		return 0, 0, err
	}
	keyLen = binary.LittleEndian.Uint32(buf[:4])
	valLen = binary.LittleEndian.Uint32(buf[4:])
	return keyLen, valLen, nil
}

// writeRecordHeader writes the (key_len, value_len) pair in record order.
func writeRecordHeader(w io.Writer, keyLen, valLen uint32) error {
	var buf [recordHeader]byte
	binary.LittleEndian.PutUint32(buf[:4], keyLen)
	binary.LittleEndian.PutUint32(buf[4:], valLen)
	n, err := w.Write(buf[:])
	if err != nil {
		return err
	}
	if n != recordHeader {
		return errShortWrite("record header", n, recordHeader)
	}
	return nil
}

func putUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

func getUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
