package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go-yob/internal/logging"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is the slice of system information logged with each report.
type HostStats struct {
	CPUPercent    float64
	MemoryUsed    uint64
	MemoryTotal   uint64
	MemoryPercent float64
	Uptime        time.Duration
	Goroutines    int
	HeapAlloc     uint64
}

// Reporter periodically logs counters and host stats.
type Reporter struct {
	registry *MetricsRegistry
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewReporter(registry *MetricsRegistry, interval time.Duration) *Reporter {
	return &Reporter{
		registry: registry,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs until ctx is cancelled or Stop is called. A non-positive
// interval disables reporting.
func (r *Reporter) Start(ctx context.Context) {
	if r.interval <= 0 {
		close(r.done)
		return
	}
	go r.loop(ctx)
}

func (r *Reporter) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.Report(ctx)
		}
	}
}

// Report logs one snapshot.
func (r *Reporter) Report(ctx context.Context) {
	fields := logging.Fields{}
	for name, value := range r.registry.Snapshot() {
		fields[name] = value
	}

	stats := r.registry.GetLatencyHistogram().GetStats()
	fields["latency_avg_ms"] = nsToMs(stats.Avg)
	fields["latency_max_ms"] = nsToMs(stats.Max)
	fields["ingress_rate_eps"] = r.registry.GetIngressRate().GetRate()

	hs := GatherHostStats(ctx)
	fields["cpu_percent"] = hs.CPUPercent
	fields["mem_percent"] = hs.MemoryPercent
	fields["heap_alloc_bytes"] = hs.HeapAlloc
	fields["goroutines"] = hs.Goroutines
	fields["host_uptime"] = hs.Uptime.String()

	logging.WithFields(fields).Info("Stats")
}

// Stop ends the loop and waits for it.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// GatherHostStats collects what it can; failed lookups leave zero values.
func GatherHostStats(ctx context.Context) HostStats {
	var hs HostStats

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		hs.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		hs.MemoryUsed = vm.Used
		hs.MemoryTotal = vm.Total
		hs.MemoryPercent = vm.UsedPercent
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		hs.Uptime = time.Duration(uptime) * time.Second
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	hs.HeapAlloc = ms.HeapAlloc
	hs.Goroutines = runtime.NumGoroutine()

	return hs
}
