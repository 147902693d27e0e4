package records

import "github.com/bwmarrin/discordgo"

// Accent colors, packed RGB.
const (
	ColorEdit    = 0x2f8bf5
	ColorDelete  = 0xff7777
	ColorConfirm = 0x77ff77
)

// Field names shared by the change records.
const (
	FieldMessageID        = "Message ID"
	FieldMessageTimestamp = "Message Timestamp"
	FieldMessageURL       = "Message URL"
	FieldUser             = "User"
	FieldAttachment       = "Attachment"
	FieldAttachmentInfo   = "Attachment info"
)

const (
	PlaceholderEmpty     = "<message content empty>"
	PlaceholderSeeEmbed  = "<see embed below>"
	PlaceholderSeeEmbeds = "<see embeds below>"
)

// MaxEmbedsPerMessage is Discord's limit on embeds in one message.
const MaxEmbedsPerMessage = 10

// MaxDescriptionLength is Discord's limit on an embed description, in characters.
const MaxDescriptionLength = 4096

// MaxSnapshotLength bounds each side of an edit so both fit in one description.
const MaxSnapshotLength = 2000

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type AuthorBlock struct {
	Name    string
	IconURL string
}

// LogRecord is the renderable summary of one message change.
type LogRecord struct {
	Title       string
	Color       int
	Author      *AuthorBlock
	Description string
	Fields      []Field
	// Thumbnail is set only for a single image attachment on a delete.
	Thumbnail string
	// Embeds are the original message's embeds, re-sent after the log embed.
	Embeds []*discordgo.MessageEmbed
	// Files are URLs to download and re-attach.
	Files []string
}

// FieldNames lists the field names in order.
func (r *LogRecord) FieldNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}
