package dispatcher

import (
	"context"
	"fmt"

	"go-yob/internal/logging"
	"go-yob/internal/metrics"
	"go-yob/internal/records"
	"go-yob/internal/state"

	"github.com/bwmarrin/discordgo"
)

// Gateway is the part of the Discord session the gate needs.
type Gateway interface {
	ResolveChannel(channelID string) (*discordgo.Channel, error)
	SendMessage(channelID string, msg *discordgo.MessageSend) error
}

type Outcome uint8

const (
	OutcomeDelivered Outcome = iota
	OutcomeUnconfigured
	OutcomeUnresolved
	OutcomeCrossGuild
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeUnconfigured:
		return "unconfigured"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeCrossGuild:
		return "cross_guild"
	default:
		return "unknown"
	}
}

// Gate decides whether a record reaches the log channel and sends it.
type Gate struct {
	gateway     Gateway
	destination *state.LogDestination
	files       FileFetcher
	metrics     *metrics.MetricsRegistry
}

func NewGate(gateway Gateway, destination *state.LogDestination, files FileFetcher, registry *metrics.MetricsRegistry) *Gate {
	return &Gate{
		gateway:     gateway,
		destination: destination,
		files:       files,
		metrics:     registry,
	}
}

// Deliver sends rec to the configured log channel when that channel belongs
// to guildID. Skips are not errors; only a failed send is.
func (g *Gate) Deliver(ctx context.Context, rec *records.LogRecord, guildID string) (Outcome, error) {
	log := logging.WithFields(logging.Fields{
		"title":    rec.Title,
		"guild_id": guildID,
	})

	channelID, ok := g.destination.Get()
	if !ok {
		g.metrics.Inc(metrics.SkippedUnconfigured)
		log.Debug("No log channel configured, skipping")
		return OutcomeUnconfigured, nil
	}
	log = log.WithField("log_channel_id", channelID)

	channel, err := g.gateway.ResolveChannel(channelID)
	if err != nil || channel == nil {
		g.metrics.Inc(metrics.SkippedUnresolved)
		log.WithError(err).Warn("Log channel could not be resolved, skipping")
		return OutcomeUnresolved, nil
	}

	if channel.GuildID != guildID {
		g.metrics.Inc(metrics.SkippedCrossGuild)
		log.WithField("log_guild_id", channel.GuildID).Info("Event is from another guild than the log channel, skipping")
		return OutcomeCrossGuild, nil
	}

	if err := g.send(ctx, channelID, rec); err != nil {
		return OutcomeDelivered, err
	}

	log.Debug("Record delivered")
	return OutcomeDelivered, nil
}

// Reply sends rec straight to channelID, bypassing the destination checks.
func (g *Gate) Reply(ctx context.Context, channelID string, rec *records.LogRecord) error {
	return g.send(ctx, channelID, rec)
}

func (g *Gate) send(ctx context.Context, channelID string, rec *records.LogRecord) error {
	msg := &discordgo.MessageSend{
		Embeds: records.Render(rec),
		Files:  g.fetchFiles(ctx, rec.Files),
	}

	if err := g.gateway.SendMessage(channelID, msg); err != nil {
		g.metrics.Inc(metrics.DeliveryFailures)
		return fmt.Errorf("failed to send %q to channel %s: %w", rec.Title, channelID, err)
	}

	g.metrics.Inc(metrics.RecordsDelivered)
	return nil
}

// fetchFiles keeps the order of urls; a URL that cannot be fetched is left
// out rather than failing the whole record.
func (g *Gate) fetchFiles(ctx context.Context, urls []string) []*discordgo.File {
	if len(urls) == 0 || g.files == nil {
		return nil
	}

	files := make([]*discordgo.File, 0, len(urls))
	for _, u := range urls {
		f, err := g.files.Fetch(ctx, u)
		if err != nil {
			g.metrics.Inc(metrics.AttachmentFailures)
			logging.WithFields(logging.Fields{"url": u}).WithError(err).Warn("Attachment could not be re-uploaded")
			continue
		}
		files = append(files, f)
	}
	return files
}
