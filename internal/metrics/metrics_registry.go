package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counter names used across the pipeline.
const (
	EventsReceived      = "events_received"
	EventsDropped       = "events_dropped"
	EventsIgnored       = "events_ignored"
	RecordsBuilt        = "records_built"
	RecordsDelivered    = "records_delivered"
	SkippedUnconfigured = "skipped_unconfigured"
	SkippedUnresolved   = "skipped_unresolved"
	SkippedCrossGuild   = "skipped_cross_guild"
	DeliveryFailures    = "delivery_failures"
	AttachmentFailures  = "attachment_failures"
	CommandsAccepted    = "commands_accepted"
	CommandsRejected    = "commands_rejected"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Value() uint64 {
	return atomic.LoadUint64(&c.value)
}

type MetricsRegistry struct {
	mu          sync.RWMutex
	counters    map[string]*Counter
	latencyHist *LatencyHistogram
	ingressRate *IngressRateCounter
}

func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters:    make(map[string]*Counter),
		latencyHist: NewLatencyHistogram(),
		ingressRate: NewIngressRateCounter(),
	}
}

// Counter returns the named counter, creating it on first use.
func (mr *MetricsRegistry) Counter(name string) *Counter {
	mr.mu.RLock()
	c, ok := mr.counters[name]
	mr.mu.RUnlock()
	if ok {
		return c
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok = mr.counters[name]; !ok {
		c = &Counter{}
		mr.counters[name] = c
	}
	return c
}

func (mr *MetricsRegistry) Inc(name string) {
	if mr == nil {
		return
	}
	mr.Counter(name).Inc()
}

// Snapshot copies every counter value, keyed by name.
func (mr *MetricsRegistry) Snapshot() map[string]uint64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	out := make(map[string]uint64, len(mr.counters))
	for name, c := range mr.counters {
		out[name] = c.Value()
	}
	return out
}

func (mr *MetricsRegistry) CounterNames() []string {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	names := make([]string, 0, len(mr.counters))
	for name := range mr.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (mr *MetricsRegistry) GetLatencyHistogram() *LatencyHistogram {
	return mr.latencyHist
}

func (mr *MetricsRegistry) GetIngressRate() *IngressRateCounter {
	return mr.ingressRate
}
