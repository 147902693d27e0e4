package records

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go-yob/internal/models"
	"go-yob/pkg/util"

	"github.com/bwmarrin/discordgo"
)

var ErrMissingAuthor = errors.New("event has no author")

// AvatarResolver turns an author into a 64px icon URL.
type AvatarResolver interface {
	AvatarURL(author *models.Author) string
}

type Builder struct {
	avatars AvatarResolver
}

func NewBuilder(avatars AvatarResolver) *Builder {
	return &Builder{avatars: avatars}
}

// BuildDeleted describes a deleted message, re-attaching its files and
// re-sending its embeds.
func (b *Builder) BuildDeleted(ev *models.ChangeEvent) (*LogRecord, error) {
	if ev.Author == nil {
		return nil, fmt.Errorf("message %s: %w", ev.MessageID, ErrMissingAuthor)
	}

	rec := &LogRecord{
		Title:       fmt.Sprintf("Message deleted in <#%s>", ev.ChannelID),
		Color:       ColorDelete,
		Author:      b.authorBlock(ev.Author),
		Description: deletedDescription(ev),
		Fields: []Field{
			messageIDField(ev.MessageID),
			timestampField(ev.MessageID),
			userField(ev.Author),
		},
	}

	for _, embed := range ev.Embeds {
		if embed == nil {
			continue
		}
		rec.Embeds = append(rec.Embeds, stripEmbedType(embed))
	}

	switch n := len(ev.Attachments); {
	case n == 1:
		attachment := ev.Attachments[0]
		if attachment.IsImage() {
			rec.Thumbnail = attachment.ProxyURL
			rec.Fields = append(rec.Fields, Field{
				Name:  FieldAttachmentInfo,
				Value: "Name : " + attachmentLink(attachment),
			})
		} else {
			rec.Files = append(rec.Files, attachment.URL)
			rec.Fields = append(rec.Fields, Field{
				Name:  FieldAttachment,
				Value: attachmentLink(attachment),
			})
		}
	case n > 1:
		for i, attachment := range ev.Attachments {
			rec.Files = append(rec.Files, attachment.URL)
			rec.Fields = append(rec.Fields, Field{
				Name:  fmt.Sprintf("%s %d", FieldAttachment, i+1),
				Value: attachmentLink(attachment),
			})
		}
	}

	return rec, nil
}

// BuildUpdated describes an edit as old and new content side by side.
// Attachments and embeds are not inspected on edits.
func (b *Builder) BuildUpdated(ev *models.ChangeEvent) (*LogRecord, error) {
	if ev.Author == nil {
		return nil, fmt.Errorf("message %s: %w", ev.MessageID, ErrMissingAuthor)
	}

	description := fmt.Sprintf(
		"## Old message content\n %s\n## New message content\n %s",
		snapshot(ev.BeforeContent),
		snapshot(ev.Content),
	)

	return &LogRecord{
		Title:       fmt.Sprintf("Message edited in <#%s>", ev.ChannelID),
		Color:       ColorEdit,
		Author:      b.authorBlock(ev.Author),
		Description: description,
		Fields: []Field{
			messageIDField(ev.MessageID),
			timestampField(ev.MessageID),
			{Name: FieldMessageURL, Value: fmt.Sprintf("[Message URL](%s)", ev.URL()), Inline: true},
			userField(ev.Author),
		},
	}, nil
}

// BuildConfirmation acknowledges a new log channel.
func (b *Builder) BuildConfirmation(channelID string) *LogRecord {
	return &LogRecord{
		Title: fmt.Sprintf("Set log channel as <#%s>", channelID),
		Color: ColorConfirm,
	}
}

func (b *Builder) authorBlock(author *models.Author) *AuthorBlock {
	block := &AuthorBlock{Name: author.DisplayName()}
	if b.avatars != nil {
		block.IconURL = b.avatars.AvatarURL(author)
	}
	return block
}

func deletedDescription(ev *models.ChangeEvent) string {
	if content := ev.ContentString(); content != "" {
		return codeBlock(truncate(content, MaxDescriptionLength-len(codeBlock(""))))
	}

	switch embeds := len(ev.Embeds); {
	case embeds > 1:
		return PlaceholderSeeEmbeds
	case embeds == 1:
		return PlaceholderSeeEmbed
	default:
		return PlaceholderEmpty
	}
}

// snapshot only falls back to the placeholder for unknown content; an empty
// edit renders as an empty code block.
func snapshot(content *string) string {
	if content == nil {
		return PlaceholderEmpty
	}
	return codeBlock(truncate(*content, MaxSnapshotLength))
}

// truncate cuts s to at most max characters, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func codeBlock(content string) string {
	return "```md\n" + content + "```"
}

func messageIDField(messageID string) Field {
	return Field{Name: FieldMessageID, Value: "`" + messageID + "`", Inline: true}
}

func timestampField(messageID string) Field {
	return Field{
		Name:   FieldMessageTimestamp,
		Value:  fmt.Sprintf("<t:%d:F>", util.SnowflakeTimestamp(messageID)),
		Inline: true,
	}
}

func userField(author *models.Author) Field {
	return Field{
		Name:   FieldUser,
		Value:  fmt.Sprintf("`%s` - <@%s>", author.ID, author.ID),
		Inline: true,
	}
}

func attachmentLink(a models.Attachment) string {
	return fmt.Sprintf("[`%s`](%s)", a.Name, a.URL)
}

// stripEmbedType copies an embed without its type so Discord infers it from
// the fields present.
func stripEmbedType(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	clone := *embed
	clone.Type = ""
	if embed.Fields != nil {
		clone.Fields = make([]*discordgo.MessageEmbedField, len(embed.Fields))
		copy(clone.Fields, embed.Fields)
	}
	return &clone
}
