package commands

import (
	"context"
	"fmt"

	"go-yob/internal/logging"
	"go-yob/internal/metrics"
	"go-yob/internal/models"
	"go-yob/internal/records"
	"go-yob/internal/state"
)

// SetLogChannel is the only command; it follows the configured prefix.
const SetLogChannel = "setLogChannel"

// Replier sends a record to the channel a command came from.
type Replier interface {
	Reply(ctx context.Context, channelID string, rec *records.LogRecord) error
}

// Interpreter handles "<prefix>setLogChannel".
type Interpreter struct {
	prefix      string
	destination *state.LogDestination
	permissions PermissionResolver
	builder     *records.Builder
	replier     Replier
	metrics     *metrics.MetricsRegistry
}

func NewInterpreter(prefix string, destination *state.LogDestination, permissions PermissionResolver, builder *records.Builder, replier Replier, registry *metrics.MetricsRegistry) *Interpreter {
	return &Interpreter{
		prefix:      prefix,
		destination: destination,
		permissions: permissions,
		builder:     builder,
		replier:     replier,
		metrics:     registry,
	}
}

// Matches reports whether content is exactly the command.
func (in *Interpreter) Matches(content string) bool {
	return content == in.prefix+SetLogChannel
}

// Handle runs the command carried by a created message. It reports whether
// the log channel was changed; unauthorized senders are ignored without a
// reply.
func (in *Interpreter) Handle(ctx context.Context, ev *models.ChangeEvent) (bool, error) {
	if ev.Content == nil || !in.Matches(*ev.Content) {
		return false, nil
	}

	log := logging.WithFields(logging.Fields{
		"trace_id":   ev.TraceID,
		"guild_id":   ev.GuildID,
		"channel_id": ev.ChannelID,
	})

	allowed, reason := in.authorize(ev)
	if !allowed {
		in.metrics.Inc(metrics.CommandsRejected)
		log.WithField("reason", reason).Info("setLogChannel rejected")
		return false, nil
	}

	prev := in.destination.Set(ev.ChannelID)
	in.metrics.Inc(metrics.CommandsAccepted)
	log.WithFields(logging.Fields{
		"author_id":        ev.Author.ID,
		"previous_channel": prev,
	}).Info("Log channel set")

	confirmation := in.builder.BuildConfirmation(ev.ChannelID)
	if err := in.replier.Reply(ctx, ev.ChannelID, confirmation); err != nil {
		return true, fmt.Errorf("failed to confirm log channel: %w", err)
	}
	return true, nil
}
