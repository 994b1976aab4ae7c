package shm

import "encoding/binary"

// Record is the metadata the consumer recovers from a committed frame.
// Payload bytes are copied into the caller-supplied destination buffer,
// not returned here, so TryRead never allocates.
type Record struct {
	Type      uint32
	Timestamp uint64
	Sequence  uint32
	Length    int32
}

// TryWrite admits a single framed record into the ring: a 24-byte header
// (length, type, timestamp, sequence, reserved) followed by payload,
// zero-padded up to an 8-byte boundary. It never blocks and never
// allocates. It returns false under the drop-newest admission policy when
// the ring does not currently have room; the caller may retry later. A
// violated precondition (empty or oversize payload) or an observed
// corruption of the region's own bookkeeping is reported as an error —
// neither is recoverable by retrying.
func (r *Region) TryWrite(payload []byte, typ uint32, timestamp uint64, sequence uint32) (bool, error) {
	if len(payload) == 0 {
		return false, newPreconditionError("EMPTY_PAYLOAD", "payload must be non-empty")
	}
	total := AlignUp8(RecordHeaderBytes + uint32(len(payload)))
	if total > r.capacity/2 {
		return false, newPreconditionError("PAYLOAD_TOO_LARGE", "record of %d bytes exceeds half capacity (%d)", total, r.capacity/2)
	}

	head := r.HeadBytes() // producer owns head; plain load is fine
	tail := r.loadCounterAcquire(offTailBytes)

	used := int64(head) - int64(tail)
	if used < 0 || uint64(used) > uint64(r.capacity) {
		return false, newCorruptionError("BAD_USED_RANGE", "head-tail spread %d outside [0, %d]", used, r.capacity)
	}

	if uint64(r.capacity)-uint64(used) < uint64(total) {
		r.addDropped()
		return false, nil
	}

	off := Offset(r.capacity, head)
	rem := r.capacity - off

	if rem < RecordHeaderBytes {
		// No header can fit in the remaining slack; advance past it with
		// no wrap marker needed, since nothing was ever written there.
		head += uint64(rem)
		r.storeCounterRelease(offHeadBytes, head)
		off = 0
		rem = r.capacity

		// The padding consumed free space; re-check admission so the
		// record never overwrites bytes the consumer has not read yet.
		tail = r.loadCounterAcquire(offTailBytes)
		used = int64(head) - int64(tail)
		if uint64(r.capacity)-uint64(used) < uint64(total) {
			r.addDropped()
			return false, nil
		}
	}

	if rem < total {
		ring := r.ringBase()
		binary.LittleEndian.PutUint32(ring[off+recOffType:], 0)
		binary.LittleEndian.PutUint64(ring[off+recOffTimestamp:], 0)
		binary.LittleEndian.PutUint32(ring[off+recOffSequence:], 0)
		binary.LittleEndian.PutUint32(ring[off+recOffReserved:], 0)
		marker := WrapMarker
		binary.LittleEndian.PutUint32(ring[off+recOffLength:], uint32(marker))

		head += uint64(rem)
		r.storeCounterRelease(offHeadBytes, head)
		off = 0
		rem = r.capacity

		tail = r.loadCounterAcquire(offTailBytes)
		used = int64(head) - int64(tail)
		if used < 0 || uint64(used) > uint64(r.capacity) {
			return false, newCorruptionError("BAD_USED_RANGE", "head-tail spread %d outside [0, %d]", used, r.capacity)
		}
		if uint64(r.capacity)-uint64(used) < uint64(total) {
			r.addDropped()
			return false, nil
		}
	}

	ring := r.ringBase()
	binary.LittleEndian.PutUint32(ring[off+recOffType:], typ)
	binary.LittleEndian.PutUint64(ring[off+recOffTimestamp:], timestamp)
	binary.LittleEndian.PutUint32(ring[off+recOffSequence:], sequence)
	binary.LittleEndian.PutUint32(ring[off+recOffReserved:], 0)

	binary.LittleEndian.PutUint32(ring[off+recOffLength:], uint32(int32(-len(payload))))

	copy(ring[off+RecordHeaderBytes:], payload)
	clear(ring[off+RecordHeaderBytes+uint32(len(payload)) : off+total])

	binary.LittleEndian.PutUint32(ring[off+recOffLength:], uint32(int32(len(payload))))

	r.storeCounterRelease(offHeadBytes, head+uint64(total))

	return true, nil
}

// TryRead drains at most one framed record into dest. It returns
// (Record{}, false, nil) when the ring is empty, the next record is still
// in progress, or dest is too small to hold the payload — in every one of
// those cases the tail is not advanced and the record, if any, remains
// available for a later call. A committed record is reported as
// (rec, true, nil) with rec.Length bytes of payload copied into dest. An
// observed invariant violation is reported as an error; the region should
// not be used further.
func (r *Region) TryRead(dest []byte) (Record, bool, error) {
	tail := r.TailBytes() // consumer owns tail; plain load is fine
	head := r.loadCounterAcquire(offHeadBytes)
	if tail == head {
		return Record{}, false, nil
	}

	off := Offset(r.capacity, tail)
	rem := r.capacity - off

	if rem < RecordHeaderBytes {
		r.storeCounterRelease(offTailBytes, tail+uint64(rem))
		return Record{}, false, nil
	}

	ring := r.ringBase()
	length := int32(binary.LittleEndian.Uint32(ring[off+recOffLength:]))

	switch {
	case length == WrapMarker:
		r.storeCounterRelease(offTailBytes, tail+uint64(rem))
		return Record{}, false, nil
	case length < 0:
		// In-progress: producer has reserved the header but not yet
		// committed the payload. Not an error — just not ready yet.
		return Record{}, false, nil
	case length == 0:
		return Record{}, false, newCorruptionError("ZERO_LENGTH", "committed record at offset %d has zero length", off)
	}

	total := AlignUp8(RecordHeaderBytes + uint32(length))
	if total > rem {
		return Record{}, false, newCorruptionError("RECORD_SPANS_END", "record of %d bytes at offset %d exceeds remaining %d bytes without a wrap marker", total, off, rem)
	}

	if int(length) > len(dest) {
		return Record{}, false, nil
	}

	rec := Record{
		Type:      binary.LittleEndian.Uint32(ring[off+recOffType:]),
		Timestamp: binary.LittleEndian.Uint64(ring[off+recOffTimestamp:]),
		Sequence:  binary.LittleEndian.Uint32(ring[off+recOffSequence:]),
		Length:    length,
	}
	copy(dest, ring[off+RecordHeaderBytes:off+RecordHeaderBytes+uint32(length)])

	r.storeCounterRelease(offTailBytes, tail+uint64(total))

	return rec, true, nil
}
