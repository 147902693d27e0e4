package state

import "sync"

// LogDestination holds the one channel that receives message logs for this
// process. The zero value is usable and means logging is disabled.
type LogDestination struct {
	mu        sync.RWMutex
	channelID string
}

func NewLogDestination() *LogDestination {
	return &LogDestination{}
}

// Set overwrites the destination and returns the previous channel ID.
// Last writer wins; the channel is not validated.
func (d *LogDestination) Set(channelID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.channelID
	d.channelID = channelID
	return prev
}

// Get returns the channel ID and whether one has been configured.
func (d *LogDestination) Get() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.channelID, d.channelID != ""
}

func (d *LogDestination) IsSet() bool {
	_, ok := d.Get()
	return ok
}
