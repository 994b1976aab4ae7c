package shm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPowerOfTwo(t *testing.T) {
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(4096))
	assert.True(t, IsPowerOfTwo(MaxCapacity))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(3))
	assert.False(t, IsPowerOfTwo(4095))
}

func TestAlignUp8(t *testing.T) {
	assert.Equal(t, uint32(0), AlignUp8(0))
	assert.Equal(t, uint32(8), AlignUp8(1))
	assert.Equal(t, uint32(8), AlignUp8(8))
	assert.Equal(t, uint32(16), AlignUp8(9))
	assert.Equal(t, uint32(32), AlignUp8(27))
}

func TestOffsetWrapsAtCapacity(t *testing.T) {
	assert.Equal(t, uint32(0), Offset(4096, 4096))
	assert.Equal(t, uint32(100), Offset(4096, 4196))
	assert.Equal(t, uint32(0), Offset(4096, 0))
}

func TestOffsetHandlesCountersBeyond32Bits(t *testing.T) {
	var big uint64 = (uint64(1) << 33) + 10
	assert.Equal(t, uint32(10), Offset(4096, big))
}

func TestWrapMarkerIsMinInt32(t *testing.T) {
	assert.Equal(t, int32(math.MinInt32), WrapMarker)
}
