// Command ringconsumer drains framed records from a shared-memory ring
// and reports throughput and publish-to-consume latency percentiles on
// exit. It is a demo driver around package shm, not part of the ring
// protocol itself.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dulhara19/nanolink/internal/backoff"
	"github.com/dulhara19/nanolink/internal/latencystats"
	"github.com/dulhara19/nanolink/internal/ringmetrics"
	"github.com/dulhara19/nanolink/internal/shmlog"
	"github.com/dulhara19/nanolink/internal/shmregion"
	"github.com/dulhara19/nanolink/shm"
)

func main() {
	var (
		name        = flag.String("name", "nanolink-ring", "shared memory region name")
		capacity    = flag.Uint("capacity", 1<<20, "ring capacity in bytes, power of two")
		bufferSize  = flag.Int("buffer", 1<<16, "destination buffer size for try_read")
		reportEvery = flag.Duration("report-every", 5*time.Second, "interval between latency reports")
		metricsAddr = flag.String("metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")
	)
	flag.Parse()

	logger := shmlog.Default("ringconsumer")

	total := uint32(shm.HeaderBytes) + uint32(*capacity)
	mapping, err := shmregion.Open(shmregion.Options{Name: *name, Size: total, Create: false})
	if err != nil {
		logger.Error("failed to open shared memory", shmlog.Err(err))
		os.Exit(1)
	}

	region, err := shm.Open(mapping.Bytes(), uint32(*capacity), false)
	if err != nil {
		logger.Error("failed to open ring", shmlog.Err(err))
		_ = mapping.Close()
		os.Exit(1)
	}

	shutdown := shmlog.NewShutdown(5*time.Second, logger)
	shutdown.Register(mapping.Close)

	if *metricsAddr != "" {
		collector := ringmetrics.NewCollector(region, "consumer")
		go func() {
			if err := ringmetrics.Serve(*metricsAddr, collector); err != nil {
				logger.Warn("metrics server stopped", shmlog.Err(err))
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dest := make([]byte, *bufferSize)
	samples := latencystats.NewSamples(4096)
	wait := backoff.New(time.Microsecond, time.Microsecond, time.Millisecond)
	ticker := time.NewTicker(*reportEvery)
	defer ticker.Stop()

	var consumed uint64
	var lastSequence uint32
	var haveSequence bool

	logger.Info("consumer starting",
		shmlog.String("region", mapping.Path()),
		shmlog.Int("capacity", int(*capacity)))

	for {
		select {
		case <-ctx.Done():
			report(logger, consumed, samples)
			_ = shutdown.Run(context.Background())
			return
		case <-ticker.C:
			report(logger, consumed, samples)
			samples.Reset()
			continue
		default:
		}

		rec, ok, err := region.TryRead(dest)
		if err != nil {
			logger.Error("ring corrupted, stopping", shmlog.Err(err))
			report(logger, consumed, samples)
			_ = shutdown.Run(context.Background())
			os.Exit(1)
		}
		if !ok {
			wait.Wait()
			continue
		}

		if haveSequence && rec.Sequence <= lastSequence {
			logger.Warn("out-of-order sequence observed",
				shmlog.Uint64("previous", uint64(lastSequence)),
				shmlog.Uint64("current", uint64(rec.Sequence)))
		}
		lastSequence = rec.Sequence
		haveSequence = true

		publishedAt := time.Unix(0, int64(rec.Timestamp))
		samples.Add(time.Since(publishedAt))

		consumed++
		wait.Reset(time.Microsecond, time.Microsecond)
	}
}

func report(logger *shmlog.Logger, consumed uint64, samples *latencystats.Samples) {
	p := samples.Compute()
	logger.Info("consumer status",
		shmlog.Uint64("consumed", consumed),
		shmlog.Int("samples", p.Count),
		shmlog.Duration("p50", p.P50),
		shmlog.Duration("p95", p.P95),
		shmlog.Duration("p99", p.P99))
}
