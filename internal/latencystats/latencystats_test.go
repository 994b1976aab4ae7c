package latencystats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeOnEmptySamples(t *testing.T) {
	s := NewSamples(8)
	p := s.Compute()
	assert.Equal(t, Percentiles{}, p)
}

func TestComputePercentiles(t *testing.T) {
	s := NewSamples(10)
	for i := 1; i <= 100; i++ {
		s.Add(time.Duration(i) * time.Millisecond)
	}

	p := s.Compute()
	assert.Equal(t, 100, p.Count)
	assert.Equal(t, time.Millisecond, p.Min)
	assert.Equal(t, 100*time.Millisecond, p.Max)
	assert.Equal(t, 51*time.Millisecond, p.P50)
	assert.Equal(t, 96*time.Millisecond, p.P95)
}

func TestResetClearsSamplesButKeepsCapacity(t *testing.T) {
	s := NewSamples(4)
	s.Add(time.Second)
	s.Add(2 * time.Second)
	assert.Equal(t, 2, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, cap(s.values))
	assert.Equal(t, Percentiles{}, s.Compute())
}
