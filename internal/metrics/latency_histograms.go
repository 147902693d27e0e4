package metrics

import (
	"sync/atomic"
	"time"
)

// LatencyHistogram tracks event handling time from receipt to delivery.
type LatencyHistogram struct {
	buckets [len(bucketBoundsMs) + 1]uint64
	min     uint64
	max     uint64
	count   uint64
	sum     uint64
}

func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{}
}

func (lh *LatencyHistogram) Record(latencyNs uint64) {
	atomic.AddUint64(&lh.count, 1)
	atomic.AddUint64(&lh.sum, latencyNs)

	for {
		oldMin := atomic.LoadUint64(&lh.min)
		if latencyNs >= oldMin && oldMin != 0 {
			break
		}
		if atomic.CompareAndSwapUint64(&lh.min, oldMin, latencyNs) {
			break
		}
	}

	for {
		oldMax := atomic.LoadUint64(&lh.max)
		if latencyNs <= oldMax {
			break
		}
		if atomic.CompareAndSwapUint64(&lh.max, oldMax, latencyNs) {
			break
		}
	}

	bucketIndex := lh.getBucketIndex(latencyNs)
	atomic.AddUint64(&lh.buckets[bucketIndex], 1)
}

// Buckets are upper bounds in milliseconds; handling includes REST calls.
var bucketBoundsMs = [...]uint64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000}

func (lh *LatencyHistogram) RecordDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	lh.Record(uint64(d.Nanoseconds()))
}

func (lh *LatencyHistogram) getBucketIndex(latencyNs uint64) int {
	latencyMs := latencyNs / uint64(time.Millisecond)

	for i, bound := range bucketBoundsMs {
		if latencyMs < bound {
			return i
		}
	}
	return len(bucketBoundsMs)
}

// Buckets returns the per-bucket counts; the last entry is the overflow.
func (lh *LatencyHistogram) Buckets() []uint64 {
	out := make([]uint64, len(lh.buckets))
	for i := range lh.buckets {
		out[i] = atomic.LoadUint64(&lh.buckets[i])
	}
	return out
}

func (lh *LatencyHistogram) GetStats() LatencyStats {
	count := atomic.LoadUint64(&lh.count)
	sum := atomic.LoadUint64(&lh.sum)

	avg := uint64(0)
	if count > 0 {
		avg = sum / count
	}

	return LatencyStats{
		Min:   atomic.LoadUint64(&lh.min),
		Max:   atomic.LoadUint64(&lh.max),
		Avg:   avg,
		Count: count,
	}
}

type LatencyStats struct {
	Min   uint64
	Max   uint64
	Avg   uint64
	Count uint64
}
