// Command ringproducer publishes framed records into a shared-memory
// ring at a configurable rate and reports throughput and drop counts on
// exit. It is a demo driver around package shm, not part of the ring
// protocol itself.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dulhara19/nanolink/internal/backoff"
	"github.com/dulhara19/nanolink/internal/pacing"
	"github.com/dulhara19/nanolink/internal/ringmetrics"
	"github.com/dulhara19/nanolink/internal/shmlog"
	"github.com/dulhara19/nanolink/internal/shmregion"
	"github.com/dulhara19/nanolink/shm"
)

func main() {
	var (
		name        = flag.String("name", "nanolink-ring", "shared memory region name")
		capacity    = flag.Uint("capacity", 1<<20, "ring capacity in bytes, power of two")
		count       = flag.Uint64("count", 0, "records to publish before exiting (0 = unbounded)")
		minPayload  = flag.Int("min-payload", 64, "minimum payload size in bytes")
		maxPayload  = flag.Int("max-payload", 512, "maximum payload size in bytes")
		msgType     = flag.Uint("type", 1, "record type tag to publish")
		rate        = flag.Int("rate", 0, "target records per second (0 = unpaced)")
		burst       = flag.Int("burst", 100, "token bucket burst size when -rate is set")
		metricsAddr = flag.String("metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")
	)
	flag.Parse()

	logger := shmlog.Default("ringproducer")

	total := uint32(shm.HeaderBytes) + uint32(*capacity)
	mapping, err := shmregion.Open(shmregion.Options{Name: *name, Size: total, Create: true})
	if err != nil {
		logger.Error("failed to open shared memory", shmlog.Err(err))
		os.Exit(1)
	}

	region, err := shm.Open(mapping.Bytes(), uint32(*capacity), true)
	if err != nil {
		logger.Error("failed to open ring", shmlog.Err(err))
		_ = mapping.Close()
		os.Exit(1)
	}

	shutdown := shmlog.NewShutdown(5*time.Second, logger)
	shutdown.Register(mapping.Close)

	if *metricsAddr != "" {
		collector := ringmetrics.NewCollector(region, "producer")
		go func() {
			if err := ringmetrics.Serve(*metricsAddr, collector); err != nil {
				logger.Warn("metrics server stopped", shmlog.Err(err))
			}
		}()
	}

	var limiter *pacing.Limiter
	if *rate > 0 {
		limiter, err = pacing.New(*rate, *burst)
		if err != nil {
			logger.Error("failed to build rate limiter", shmlog.Err(err))
			_ = shutdown.Run(context.Background())
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	spread := *maxPayload - *minPayload
	if spread < 0 {
		spread = 0
	}

	var sequence uint32
	var published, dropped uint64
	wait := backoff.New(time.Microsecond, time.Microsecond, time.Millisecond)

	logger.Info("producer starting",
		shmlog.String("region", mapping.Path()),
		shmlog.Int("capacity", int(*capacity)))

	for {
		select {
		case <-ctx.Done():
			report(logger, published, dropped)
			_ = shutdown.Run(context.Background())
			return
		default:
		}

		if *count > 0 && published >= *count {
			report(logger, published, dropped)
			_ = shutdown.Run(context.Background())
			return
		}

		if limiter != nil && !limiter.Allow() {
			wait.Wait()
			continue
		}

		n := *minPayload
		if spread > 0 {
			n += rng.Intn(spread + 1)
		}
		payload := make([]byte, n)
		rng.Read(payload)

		ok, err := region.TryWrite(payload, uint32(*msgType), uint64(time.Now().UnixNano()), sequence)
		if err != nil {
			logger.Error("ring corrupted, stopping", shmlog.Err(err))
			report(logger, published, dropped)
			_ = shutdown.Run(context.Background())
			os.Exit(1)
		}
		if !ok {
			dropped++
			wait.Wait()
			continue
		}

		sequence++
		published++
		wait.Reset(time.Microsecond, time.Microsecond)
	}
}

func report(logger *shmlog.Logger, published, dropped uint64) {
	logger.Info("producer exiting",
		shmlog.Uint64("published", published),
		shmlog.Uint64("dropped", dropped))
}
