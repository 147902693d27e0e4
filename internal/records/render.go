package records

import (
	"go-yob/internal/logging"

	"github.com/bwmarrin/discordgo"
)

// Render converts the record into the log embed followed by the passthrough
// embeds, capped at Discord's per-message limit.
func Render(rec *LogRecord) []*discordgo.MessageEmbed {
	main := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       rec.Title,
		Description: rec.Description,
		Color:       rec.Color,
	}

	if rec.Author != nil {
		main.Author = &discordgo.MessageEmbedAuthor{
			Name:    rec.Author.Name,
			IconURL: rec.Author.IconURL,
		}
	}

	if len(rec.Fields) > 0 {
		main.Fields = make([]*discordgo.MessageEmbedField, 0, len(rec.Fields))
		for _, f := range rec.Fields {
			main.Fields = append(main.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
	}

	if rec.Thumbnail != "" {
		main.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: rec.Thumbnail}
	}

	embeds := make([]*discordgo.MessageEmbed, 0, 1+len(rec.Embeds))
	embeds = append(embeds, main)
	embeds = append(embeds, rec.Embeds...)

	if len(embeds) > MaxEmbedsPerMessage {
		logging.WithFields(logging.Fields{
			"title":   rec.Title,
			"dropped": len(embeds) - MaxEmbedsPerMessage,
		}).Warn("Too many embeds for one message, dropping the rest")
		embeds = embeds[:MaxEmbedsPerMessage]
	}

	return embeds
}
