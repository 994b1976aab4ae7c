package shm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegion(t *testing.T, capacity uint32) *Region {
	t.Helper()
	base := make([]byte, HeaderBytes+capacity)
	r, err := Open(base, capacity, true)
	require.NoError(t, err)
	return r
}

func TestOpenRejectsNonPowerOfTwoCapacity(t *testing.T) {
	base := make([]byte, HeaderBytes+5000)
	_, err := Open(base, 5000, true)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "BAD_CAPACITY", cfgErr.Code)
}

func TestOpenRejectsCapacityOutOfRange(t *testing.T) {
	base := make([]byte, HeaderBytes+1024)
	_, err := Open(base, 1024, true)
	require.Error(t, err)

	// capacityBytes is checked against [MinCapacity, MaxCapacity] before
	// base is ever measured, so a small base is enough to exercise the
	// rejection without allocating a real MaxCapacity*2-sized buffer.
	base = make([]byte, HeaderBytes+1024)
	_, err = Open(base, MaxCapacity*2, true)
	require.Error(t, err)
}

func TestOpenAcceptsMinimumCapacity(t *testing.T) {
	r := newTestRegion(t, MinCapacity)
	assert.Equal(t, uint32(MinCapacity), r.Capacity())
}

func TestOpenRejectsUndersizedRegion(t *testing.T) {
	base := make([]byte, HeaderBytes+4096-1)
	_, err := Open(base, 4096, true)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "REGION_TOO_SMALL", cfgErr.Code)
}

func TestOpenInitialisesFreshHeader(t *testing.T) {
	r := newTestRegion(t, 4096)
	assert.Equal(t, uint64(0), r.HeadBytes())
	assert.Equal(t, uint64(0), r.TailBytes())
	assert.Equal(t, uint64(0), r.DroppedWrites())
}

func TestOpenSecondAttachValidatesWithoutReinitialising(t *testing.T) {
	base := make([]byte, HeaderBytes+4096)
	r1, err := Open(base, 4096, true)
	require.NoError(t, err)

	_, err = r1.TryWrite([]byte{1, 2, 3}, 1, 1, 1)
	require.NoError(t, err)

	r2, err := Open(base, 4096, true)
	require.NoError(t, err)
	assert.Equal(t, r1.HeadBytes(), r2.HeadBytes())
}

func TestOpenRejectsCapacityMismatch(t *testing.T) {
	base := make([]byte, HeaderBytes+8192)
	_, err := Open(base, 4096, true)
	require.NoError(t, err)

	_, err = Open(base, 8192, false)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "CAPACITY_MISMATCH", cfgErr.Code)
}

func TestOpenRejectsBadMagicWhenNotInitialising(t *testing.T) {
	base := make([]byte, HeaderBytes+4096)
	_, err := Open(base, 4096, false)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "BAD_MAGIC", cfgErr.Code)
}
