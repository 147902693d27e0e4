package bootstrap

import (
	"errors"
	"time"

	"go-yob/internal/logging"
	"go-yob/internal/metrics"
)

var ErrShutdownTimeout = errors.New("timed out draining event queue")

// Shutdown closes the gateway first so no new events arrive, then lets the
// consumer finish what is queued.
func Shutdown(c *Components, timeoutS int) error {
	logging.Info("Starting graceful shutdown...")
	var errs []error

	logging.Info("Closing Discord session...")
	if err := c.Session.Close(); err != nil {
		errs = append(errs, err)
	}

	logging.Info("Draining event queue (%d pending)...", c.Queue.Len())
	c.Queue.Close()

	timeout := time.Duration(timeoutS) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	select {
	case <-c.Queue.Done():
	case <-time.After(timeout):
		logging.Warn("Event queue not drained after %s, %d events lost", timeout, c.Queue.Len())
		errs = append(errs, ErrShutdownTimeout)
	}

	c.Watchdog.Stop()
	c.Reporter.Stop()
	logging.Info("Final metrics:\n%s", metrics.NewMetricsExporter(c.Metrics).Export())
	c.HTTPPool.CloseIdle()

	logging.Info("Graceful shutdown complete")
	if logging.GlobalLogger != nil {
		if err := logging.GlobalLogger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
