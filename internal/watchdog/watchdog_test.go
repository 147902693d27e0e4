package watchdog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchdogFlagsStalledComponent(t *testing.T) {
	pending := 0
	w := NewWatchdog(time.Second)
	w.RegisterComponent("event_consumer", time.Second, func() int { return pending })

	later := time.Now().Add(5 * time.Second)

	w.checkAllComponents(later)
	assert.True(t, w.IsHealthy("event_consumer"), "idle component is not stalled")

	pending = 3
	w.checkAllComponents(later)
	assert.False(t, w.IsHealthy("event_consumer"))
	assert.Equal(t, map[string]bool{"event_consumer": false}, w.GetStatus())

	w.Heartbeat("event_consumer")
	assert.True(t, w.IsHealthy("event_consumer"))
}

func TestWatchdogUnknownComponent(t *testing.T) {
	w := NewWatchdog(time.Second)
	w.Heartbeat("missing")
	assert.False(t, w.IsHealthy("missing"))
}

func TestWatchdogStopWithoutInterval(t *testing.T) {
	w := NewWatchdog(0)
	w.Start(context.Background())
	w.Stop()
}
