package records

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	rec := &LogRecord{
		Title:       "Message deleted in <#1>",
		Color:       ColorDelete,
		Author:      &AuthorBlock{Name: "Nelly", IconURL: "https://cdn.example/a.png"},
		Description: "```md\nhi```",
		Fields: []Field{
			{Name: "Message ID", Value: "`1`", Inline: true},
			{Name: "Attachment info", Value: "Name : x"},
		},
		Thumbnail: "https://media.example/x.png",
		Embeds:    []*discordgo.MessageEmbed{{Title: "passthrough"}},
	}

	embeds := Render(rec)
	require.Len(t, embeds, 2)

	main := embeds[0]
	assert.Equal(t, discordgo.EmbedTypeRich, main.Type)
	assert.Equal(t, rec.Title, main.Title)
	assert.Equal(t, rec.Description, main.Description)
	assert.Equal(t, 0xff7777, main.Color)
	require.NotNil(t, main.Author)
	assert.Equal(t, "Nelly", main.Author.Name)
	assert.Equal(t, "https://cdn.example/a.png", main.Author.IconURL)
	require.NotNil(t, main.Thumbnail)
	assert.Equal(t, "https://media.example/x.png", main.Thumbnail.URL)
	require.Len(t, main.Fields, 2)
	assert.True(t, main.Fields[0].Inline)
	assert.False(t, main.Fields[1].Inline)

	assert.Equal(t, "passthrough", embeds[1].Title)
}

func TestRenderConfirmation(t *testing.T) {
	embeds := Render(NewBuilder(nil).BuildConfirmation("9"))
	require.Len(t, embeds, 1)

	assert.Equal(t, "Set log channel as <#9>", embeds[0].Title)
	assert.Equal(t, ColorConfirm, embeds[0].Color)
	assert.Nil(t, embeds[0].Author)
	assert.Nil(t, embeds[0].Thumbnail)
	assert.Empty(t, embeds[0].Fields)
}

func TestRenderCapsEmbeds(t *testing.T) {
	rec := &LogRecord{Title: "many"}
	for i := 0; i < 15; i++ {
		rec.Embeds = append(rec.Embeds, &discordgo.MessageEmbed{})
	}

	embeds := Render(rec)
	assert.Len(t, embeds, MaxEmbedsPerMessage)
	assert.Equal(t, "many", embeds[0].Title)
}
