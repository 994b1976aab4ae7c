// Package ringmetrics exposes a region's counters and its utilization
// ratio as Prometheus metrics. Latency percentiles are not exported. It is
// an external collaborator: the ring protocol itself never imports this
// package.
package ringmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is whatever can report the region's current counters. It is
// satisfied by *shm.Region without ringmetrics needing to import shm.
type Source interface {
	HeadBytes() uint64
	TailBytes() uint64
	DroppedWrites() uint64
	Capacity() uint32
}

// Collector is a prometheus.Collector that reads a Source on every
// scrape rather than caching values, so it never goes stale between
// scrapes.
type Collector struct {
	source Source

	headBytes     *prometheus.Desc
	tailBytes     *prometheus.Desc
	droppedWrites *prometheus.Desc
	utilization   *prometheus.Desc
}

// NewCollector builds a Collector reporting on source, with role
// ("producer" or "consumer") attached as a constant label so both demo
// binaries can scrape into the same namespace without colliding.
func NewCollector(source Source, role string) *Collector {
	labels := prometheus.Labels{"role": role}
	return &Collector{
		source: source,
		headBytes: prometheus.NewDesc(
			"ring_head_bytes_total", "Monotonic bytes published by the producer.", nil, labels),
		tailBytes: prometheus.NewDesc(
			"ring_tail_bytes_total", "Monotonic bytes consumed by the consumer.", nil, labels),
		droppedWrites: prometheus.NewDesc(
			"ring_dropped_writes_total", "Writes rejected by admission control.", nil, labels),
		utilization: prometheus.NewDesc(
			"ring_utilization_ratio", "Fraction of capacity currently occupied.", nil, labels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.headBytes
	ch <- c.tailBytes
	ch <- c.droppedWrites
	ch <- c.utilization
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	head := c.source.HeadBytes()
	tail := c.source.TailBytes()
	capacity := c.source.Capacity()

	ch <- prometheus.MustNewConstMetric(c.headBytes, prometheus.CounterValue, float64(head))
	ch <- prometheus.MustNewConstMetric(c.tailBytes, prometheus.CounterValue, float64(tail))
	ch <- prometheus.MustNewConstMetric(c.droppedWrites, prometheus.CounterValue, float64(c.source.DroppedWrites()))

	var util float64
	if capacity > 0 {
		util = float64(head-tail) / float64(capacity)
	}
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, util)
}

// Serve registers collector against a fresh registry and serves it on
// addr until the process exits or ListenAndServe fails. Demo binaries
// run this in its own goroutine.
func Serve(addr string, collector *Collector) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
