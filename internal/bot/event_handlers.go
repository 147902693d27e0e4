package bot

import (
	"time"

	"go-yob/internal/logging"
	"go-yob/internal/models"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Enqueuer accepts translated events. Handlers never process events inline.
type Enqueuer interface {
	Enqueue(ev *models.ChangeEvent) error
}

// SetupEventHandlers registers the message handlers. Call before Connect.
func (s *Session) SetupEventHandlers(queue Enqueuer) {
	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		if r.User == nil {
			return
		}
		s.setSelfID(r.User.ID)
		logging.WithFields(logging.Fields{
			"user_id": r.User.ID,
			"guilds":  len(r.Guilds),
		}).Infof("Logged in as %s", r.User.String())
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		if ev := fromCreate(m, s.SelfID()); ev != nil {
			submit(queue, ev)
		}
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageUpdate) {
		if ev := fromUpdate(m, s.SelfID()); ev != nil {
			submit(queue, ev)
		}
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageDelete) {
		if ev := fromDelete(m, s.SelfID()); ev != nil {
			submit(queue, ev)
		}
	})
}

func submit(queue Enqueuer, ev *models.ChangeEvent) {
	if err := queue.Enqueue(ev); err != nil {
		logging.WithFields(logging.Fields{
			"trace_id":   ev.TraceID,
			"kind":       ev.Kind.String(),
			"message_id": ev.MessageID,
		}).WithError(err).Debug("Event not queued")
	}
}

func fromCreate(m *discordgo.MessageCreate, selfID string) *models.ChangeEvent {
	if m == nil || m.Message == nil {
		return nil
	}
	if isSelf(m.Author, selfID) {
		return nil
	}

	ev := newEvent(models.EventKindCreated, m.Message)
	ev.Author = toAuthor(m.Author)
	ev.Content = models.StringPtr(m.Content)
	return ev
}

// fromUpdate uses BeforeUpdate for the old content when the state cache
// still held the message.
func fromUpdate(m *discordgo.MessageUpdate, selfID string) *models.ChangeEvent {
	if m == nil || m.Message == nil {
		return nil
	}
	if m.Author == nil {
		logging.WithFields(logging.Fields{
			"message_id": m.ID,
			"channel_id": m.ChannelID,
		}).Debug("Update without author, skipping")
		return nil
	}
	if isSelf(m.Author, selfID) {
		return nil
	}

	ev := newEvent(models.EventKindUpdated, m.Message)
	ev.Author = toAuthor(m.Author)
	ev.Content = models.StringPtr(m.Content)
	if m.BeforeUpdate != nil {
		ev.BeforeContent = models.StringPtr(m.BeforeUpdate.Content)
	}
	return ev
}

// fromDelete relies on BeforeDelete; the gateway only sends ids.
func fromDelete(m *discordgo.MessageDelete, selfID string) *models.ChangeEvent {
	if m == nil || m.Message == nil {
		return nil
	}

	cached := m.BeforeDelete
	if cached == nil || cached.Author == nil {
		logging.WithFields(logging.Fields{
			"message_id": m.ID,
			"channel_id": m.ChannelID,
			"guild_id":   m.GuildID,
		}).Warn("Deleted message was not cached, skipping")
		return nil
	}
	if isSelf(cached.Author, selfID) {
		return nil
	}

	ev := newEvent(models.EventKindDeleted, m.Message)
	if ev.GuildID == "" {
		ev.GuildID = cached.GuildID
	}
	ev.Author = toAuthor(cached.Author)
	if cached.Content != "" {
		ev.Content = models.StringPtr(cached.Content)
	}
	ev.Embeds = cached.Embeds
	ev.Attachments = toAttachments(cached.Attachments)
	return ev
}

func newEvent(kind models.EventKind, m *discordgo.Message) *models.ChangeEvent {
	return &models.ChangeEvent{
		Kind:       kind,
		TraceID:    uuid.NewString(),
		MessageID:  m.ID,
		ChannelID:  m.ChannelID,
		GuildID:    m.GuildID,
		ReceivedAt: time.Now(),
	}
}

func isSelf(u *discordgo.User, selfID string) bool {
	return u != nil && selfID != "" && u.ID == selfID
}

func toAuthor(u *discordgo.User) *models.Author {
	if u == nil {
		return nil
	}
	return &models.Author{
		ID:         u.ID,
		Username:   u.Username,
		GlobalName: u.GlobalName,
		Avatar:     u.Avatar,
		Bot:        u.Bot,
	}
}

func toAttachments(in []*discordgo.MessageAttachment) []models.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Attachment, 0, len(in))
	for _, a := range in {
		if a == nil {
			continue
		}
		out = append(out, models.Attachment{
			Name:        a.Filename,
			URL:         a.URL,
			ProxyURL:    a.ProxyURL,
			ContentType: a.ContentType,
		})
	}
	return out
}
