package cdb64

import (
	"encoding/binary"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
)

// Hasher is a stateful, keyed byte hasher that produces a 64-bit digest.
// A Writer and the Reader that later opens its output must use hashers of
// the same kind; a mismatch is not detectable and silently turns every
// lookup into a miss (see WithHasher's doc comment).
//
// A HasherFactory must return a fresh, zeroed hasher ready to absorb one
// key. A Hasher
// is used for exactly one key: Write is called once (possibly in several
// chunks), then Sum64 is called once.
type Hasher interface {
	Write(p []byte) (int, error)
	Sum64() uint64
}

// HasherFactory default-constructs a Hasher.
type HasherFactory func() Hasher

func hashKey(newHasher HasherFactory, key []byte) uint64 {
	h := newHasher()
	h.Write(key)
	return h.Sum64()
}

// djb64Hasher replicates DJB's classical cdb hash, widened from 32 to 64
// bits: h starts at 5381, and for each byte b, h = ((h<<5)+h) ^ b, modulo
// 2^64 (Go's uint64 arithmetic wraps for us).
type djb64Hasher struct {
	h uint64
}

// NewDJB64Hasher is the default HasherFactory: the 64-bit DJB cdb hash.
func NewDJB64Hasher() Hasher {
	return &djb64Hasher{h: 5381}
}

func (d *djb64Hasher) Write(p []byte) (int, error) {
	h := d.h
	for _, b := range p {
		h = ((h << 5) + h) ^ uint64(b)
	}
	d.h = h
	return len(p), nil
}

func (d *djb64Hasher) Sum64() uint64 {
	return d.h
}

// sipHasher adapts github.com/dchest/siphash's SipHash-2-4 to the Hasher
// interface, keyed with a fixed 128-bit key so that NewSipHasher produces
// consistent digests across writer and reader without extra plumbing.
// Use NewSipHasherWithKey for a caller-chosen key.
type sipHasher struct {
	h hash.Hash64
}

var defaultSipKey0, defaultSipKey1 = func() (uint64, uint64) {
	// Arbitrary fixed key: this hasher exists to demonstrate a pluggable
	// alternate Hasher, not to provide MAC-grade secrecy.
	const k = "cdb64-siphash-fixed-key!"
	b := []byte(k)
	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:16])
}()

// NewSipHasher is a HasherFactory using SipHash-2-4 with a fixed key.
func NewSipHasher() Hasher {
	return &sipHasher{h: siphash.New(encodeSipKey(defaultSipKey0, defaultSipKey1))}
}

// NewSipHasherWithKey returns a HasherFactory using SipHash-2-4 keyed with
// k0, k1. Writer and Reader must agree on the key as well as the hasher
// kind.
func NewSipHasherWithKey(k0, k1 uint64) HasherFactory {
	key := encodeSipKey(k0, k1)
	return func() Hasher {
		return &sipHasher{h: siphash.New(key)}
	}
}

func encodeSipKey(k0, k1 uint64) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], k0)
	binary.LittleEndian.PutUint64(buf[8:], k1)
	return buf
}

func (s *sipHasher) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

func (s *sipHasher) Sum64() uint64 {
	return s.h.Sum64()
}

// NewXXHasher is a HasherFactory using xxHash64.
func NewXXHasher() Hasher {
	return xxhash.New()
}
