package shmlog

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Shutdown runs registered teardown functions when the demo receives an
// interrupt, bounded by a timeout. Functions are started in LIFO order
// but run concurrently, so no order of completion is guaranteed.
type Shutdown struct {
	mu      sync.Mutex
	fns     []func() error
	timeout time.Duration
	logger  *Logger
}

// NewShutdown builds a Shutdown manager. A nil logger falls back to
// Default("shutdown").
func NewShutdown(timeout time.Duration, logger *Logger) *Shutdown {
	if logger == nil {
		logger = Default("shutdown")
	}
	return &Shutdown{timeout: timeout, logger: logger}
}

// Register appends fn to the list of teardown functions to run on
// Shutdown.Run.
func (s *Shutdown) Register(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

// Run starts registered functions in reverse registration order, each in
// its own goroutine, and waits up to the configured timeout for all of
// them to finish.
func (s *Shutdown) Run(ctx context.Context) error {
	s.mu.Lock()
	fns := append([]func() error(nil), s.fns...)
	s.mu.Unlock()

	s.logger.Info("starting shutdown", Int("components", len(fns)))

	shutdownCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var wg sync.WaitGroup
	for i := len(fns) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.Error("shutdown step failed", Err(err))
			}
		}(fns[i])
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("shutdown complete")
		return nil
	case <-shutdownCtx.Done():
		s.logger.Warn("shutdown timed out")
		return errors.New("shmlog: shutdown timed out")
	}
}
