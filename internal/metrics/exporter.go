package metrics

import (
	"fmt"
	"strings"
	"time"
)

type MetricsExporter struct {
	registry *MetricsRegistry
}

func NewMetricsExporter(registry *MetricsRegistry) *MetricsExporter {
	return &MetricsExporter{registry: registry}
}

// Export renders every metric as "name value" lines, counters sorted by name.
func (me *MetricsExporter) Export() string {
	var b strings.Builder

	counters := me.registry.Snapshot()
	for _, name := range me.registry.CounterNames() {
		fmt.Fprintf(&b, "%s %d\n", name, counters[name])
	}

	stats := me.registry.GetLatencyHistogram().GetStats()
	fmt.Fprintf(&b, "handling_latency_min_ms %.3f\n", nsToMs(stats.Min))
	fmt.Fprintf(&b, "handling_latency_max_ms %.3f\n", nsToMs(stats.Max))
	fmt.Fprintf(&b, "handling_latency_avg_ms %.3f\n", nsToMs(stats.Avg))
	fmt.Fprintf(&b, "handling_latency_count %d\n", stats.Count)
	fmt.Fprintf(&b, "ingress_events_total %d\n", me.registry.GetIngressRate().GetCount())
	fmt.Fprintf(&b, "ingress_rate_eps %.4f\n", me.registry.GetIngressRate().GetRate())

	return b.String()
}

func nsToMs(ns uint64) float64 {
	return float64(ns) / float64(time.Millisecond)
}
