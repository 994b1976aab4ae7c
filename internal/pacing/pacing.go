// Package pacing rate-limits the demo producer's publish loop so a
// synthetic workload can target a steady records-per-second rate instead
// of writing as fast as the ring admits records.
package pacing

import (
	"time"

	"github.com/yasserelgammal/rate-limiter/limiter"
	"github.com/yasserelgammal/rate-limiter/store"
)

// Limiter paces a single caller against a target rate, identified by a
// fixed key since the demo has exactly one producer.
type Limiter struct {
	bucket *limiter.TokenBucket
	key    string
}

// New builds a token-bucket limiter allowing up to burst records per
// second at a sustained rate of recordsPerSecond.
func New(recordsPerSecond, burst int) (*Limiter, error) {
	bucket, err := limiter.NewTokenBucket(
		limiter.Config{
			Rate:     int64(recordsPerSecond),
			Duration: time.Second,
			Burst:    int64(burst),
		},
		store.NewMemoryStore(time.Minute),
	)
	if err != nil {
		return nil, err
	}
	return &Limiter{bucket: bucket, key: "producer"}, nil
}

// Allow reports whether the caller may publish another record now. The
// caller is expected to poll this in its own spin/sleep loop; pacing
// never blocks.
func (l *Limiter) Allow() bool {
	return l.bucket.Allow(l.key)
}
