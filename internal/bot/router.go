package bot

import (
	"context"
	"time"

	"go-yob/internal/dispatcher"
	"go-yob/internal/logging"
	"go-yob/internal/metrics"
	"go-yob/internal/models"
	"go-yob/internal/records"
	"go-yob/pkg/util"
)

// CommandHandler runs commands carried by created messages.
type CommandHandler interface {
	Handle(ctx context.Context, ev *models.ChangeEvent) (bool, error)
}

// Deliverer is the delivery gate.
type Deliverer interface {
	Deliver(ctx context.Context, rec *records.LogRecord, guildID string) (dispatcher.Outcome, error)
}

// Router is the queue consumer: it turns each event into a command run or a
// delivered log record.
type Router struct {
	commands CommandHandler
	builder  *records.Builder
	gate     Deliverer
	metrics  *metrics.MetricsRegistry
}

func NewRouter(commands CommandHandler, builder *records.Builder, gate Deliverer, registry *metrics.MetricsRegistry) *Router {
	return &Router{
		commands: commands,
		builder:  builder,
		gate:     gate,
		metrics:  registry,
	}
}

// Handle matches ingest.Handler.
func (r *Router) Handle(ctx context.Context, ev *models.ChangeEvent) {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.GetLatencyHistogram().RecordDuration(time.Since(start))
		}
	}()

	log := logging.WithFields(logging.Fields{
		"trace_id":   ev.TraceID,
		"kind":       ev.Kind.String(),
		"message_id": ev.MessageID,
		"channel_id": ev.ChannelID,
		"guild_id":   ev.GuildID,
	})

	switch ev.Kind {
	case models.EventKindCreated:
		if _, err := r.commands.Handle(ctx, ev); err != nil {
			log.WithError(err).Error("Command failed")
		}
		return
	case models.EventKindUpdated, models.EventKindDeleted:
	default:
		r.metrics.Inc(metrics.EventsIgnored)
		log.Debug("Unhandled event kind")
		return
	}

	rec, err := r.build(ev)
	if err != nil {
		r.metrics.Inc(metrics.EventsIgnored)
		log.WithError(err).Warn("Could not build log record")
		return
	}
	r.metrics.Inc(metrics.RecordsBuilt)

	outcome, err := r.gate.Deliver(ctx, rec, ev.GuildID)
	if err != nil {
		log.WithError(err).Error("Failed to deliver log record")
		return
	}
	log.WithFields(logging.Fields{
		"outcome":      outcome.String(),
		"message_sent": util.SnowflakeTime(ev.MessageID).Format(time.RFC3339),
	}).Debug("Event handled")
}

func (r *Router) build(ev *models.ChangeEvent) (*records.LogRecord, error) {
	if ev.Kind == models.EventKindDeleted {
		return r.builder.BuildDeleted(ev)
	}
	return r.builder.BuildUpdated(ev)
}
