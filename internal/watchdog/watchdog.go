package watchdog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-yob/internal/logging"
)

// Watchdog flags components that have work pending but stopped making
// progress, such as an event consumer stuck on a slow send.
type Watchdog struct {
	mu            sync.RWMutex
	components    map[string]*ComponentHealth
	checkInterval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

type ComponentHealth struct {
	Name          string
	LastHeartbeat int64
	IsHealthy     uint32
	Threshold     time.Duration
	// Pending reports queued work. A component with nothing pending is
	// idle, not stalled.
	Pending func() int
}

func NewWatchdog(checkInterval time.Duration) *Watchdog {
	return &Watchdog{
		components:    make(map[string]*ComponentHealth),
		checkInterval: checkInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (w *Watchdog) RegisterComponent(name string, threshold time.Duration, pending func() int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.components[name] = &ComponentHealth{
		Name:          name,
		LastHeartbeat: time.Now().UnixNano(),
		IsHealthy:     1,
		Threshold:     threshold,
		Pending:       pending,
	}
}

func (w *Watchdog) Heartbeat(name string) {
	w.mu.RLock()
	comp, exists := w.components[name]
	w.mu.RUnlock()

	if exists {
		atomic.StoreInt64(&comp.LastHeartbeat, time.Now().UnixNano())
		if atomic.SwapUint32(&comp.IsHealthy, 1) == 0 {
			logging.Info("Watchdog: %s recovered", name)
		}
	}
}

// Start checks components every interval until ctx ends or Stop is called.
func (w *Watchdog) Start(ctx context.Context) {
	if w.checkInterval <= 0 {
		close(w.done)
		return
	}
	go w.monitorLoop(ctx)
}

func (w *Watchdog) monitorLoop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case now := <-ticker.C:
			w.checkAllComponents(now)
		}
	}
}

func (w *Watchdog) checkAllComponents(now time.Time) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for name, comp := range w.components {
		pending := 0
		if comp.Pending != nil {
			pending = comp.Pending()
		}
		if pending == 0 {
			continue
		}

		elapsed := time.Duration(now.UnixNano() - atomic.LoadInt64(&comp.LastHeartbeat))
		if elapsed > comp.Threshold && atomic.SwapUint32(&comp.IsHealthy, 0) == 1 {
			logging.WithFields(logging.Fields{
				"component": name,
				"pending":   pending,
				"stalled":   elapsed.String(),
			}).Error("Watchdog: component unhealthy")
		}
	}
}

func (w *Watchdog) IsHealthy(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if comp, exists := w.components[name]; exists {
		return atomic.LoadUint32(&comp.IsHealthy) == 1
	}
	return false
}

// Stop ends the loop and waits for it.
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Watchdog) GetStatus() map[string]bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := make(map[string]bool, len(w.components))
	for name, comp := range w.components {
		status[name] = atomic.LoadUint32(&comp.IsHealthy) == 1
	}
	return status
}
