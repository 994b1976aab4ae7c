package shmregion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInProcessMappingRoundTrip(t *testing.T) {
	m := NewInProcess(4096)
	b := m.Bytes()
	assert.Len(t, b, 4096)

	b[0] = 0xAB
	assert.Equal(t, byte(0xAB), m.Bytes()[0])

	assert.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
}
