// Package shm implements a single-producer/single-consumer variable-size
// byte ring buffer over a shared-memory region. Two cooperating processes
// map the same named region and exchange framed records through it: the
// producer calls TryWrite, the consumer calls TryRead. After construction
// the hot path touches only the mapped bytes and a handful of ordered
// atomic loads and stores — no syscalls, no allocation, no locks.
package shm

import "math"

const (
	// Magic identifies a region written by this layout ("NLNK" little-endian).
	Magic uint32 = 0x4B4E4C4E

	// Version is the current header layout version.
	Version uint32 = 1

	// HeaderBytes is the fixed size of the region header.
	HeaderBytes = 256

	// CacheLine is the byte separation kept between counters that are
	// written by different sides, to avoid false sharing.
	CacheLine = 64

	// MinCapacity and MaxCapacity bound the ring capacity, inclusive.
	MinCapacity = 4096
	MaxCapacity = 1 << 28

	// WrapMarker is the sentinel record length that tells a reader to
	// consume the remainder of the current cycle and resume at offset 0.
	WrapMarker int32 = math.MinInt32

	// RecordHeaderBytes is the fixed size of a record header, before payload.
	RecordHeaderBytes = 24
)

// Header field offsets within the region header. These must not change
// without bumping Version — every cooperating process agrees on them.
const (
	offMagic         = 0
	offVersion       = 4
	offCapacityBytes = 8
	offReserved      = 12
	offHeadBytes     = 64
	offTailBytes     = 128
	offDroppedWrites = 192
)

// Record header field offsets, relative to the start of a record.
const (
	recOffLength    = 0
	recOffType      = 4
	recOffTimestamp = 8
	recOffSequence  = 16
	recOffReserved  = 20
)

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo(x uint32) bool {
	return x > 0 && x&(x-1) == 0
}

// AlignUp8 rounds x up to the next multiple of 8.
func AlignUp8(x uint32) uint32 {
	return (x + 7) &^ 7
}

// Offset masks a monotonic byte counter down to a physical ring offset.
// capacity must be a power of two; any other capacity panics with a
// *PreconditionError. Region validates its capacity once in Open, so the
// ring's own calls never take that path.
func Offset(capacity uint32, counter uint64) uint32 {
	if !IsPowerOfTwo(capacity) {
		panic(newPreconditionError("BAD_CAPACITY", "capacity %d is not a power of two", capacity))
	}
	return uint32(counter & uint64(capacity-1))
}
