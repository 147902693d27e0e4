package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/bwmarrin/discordgo"
)

type EventKind uint8

const (
	EventKindUnknown EventKind = iota
	EventKindCreated
	EventKindUpdated
	EventKindDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventKindCreated:
		return "created"
	case EventKindUpdated:
		return "updated"
	case EventKindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Author is the sender of a message as far as the gateway knew it.
type Author struct {
	ID         string
	Username   string
	GlobalName string
	Avatar     string
	Bot        bool
}

// DisplayName prefers the global display name over the username.
func (a *Author) DisplayName() string {
	if a.GlobalName != "" {
		return a.GlobalName
	}
	return a.Username
}

var imageContentType = regexp.MustCompile(`jpeg|png|gif|webp`)

type Attachment struct {
	Name        string
	URL         string
	ProxyURL    string
	ContentType string
}

// IsImage reports whether the attachment can be shown inline as a thumbnail.
func (a Attachment) IsImage() bool {
	return a.ContentType != "" && imageContentType.MatchString(a.ContentType)
}

// ChangeEvent is one message lifecycle event. Content pointers are nil when
// the gateway had no copy of the text (partial or uncached messages).
type ChangeEvent struct {
	Kind      EventKind
	TraceID   string
	MessageID string
	ChannelID string
	GuildID   string

	Author        *Author
	Content       *string
	BeforeContent *string

	Embeds      []*discordgo.MessageEmbed
	Attachments []Attachment

	ReceivedAt time.Time
}

// URL is the jump link to the message.
func (e *ChangeEvent) URL() string {
	guild := e.GuildID
	if guild == "" {
		guild = "@me"
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guild, e.ChannelID, e.MessageID)
}

// ContentString returns the content or "" when it is unknown.
func (e *ChangeEvent) ContentString() string {
	if e.Content == nil {
		return ""
	}
	return *e.Content
}

// StringPtr is a helper for building events with known content.
func StringPtr(s string) *string {
	return &s
}
