package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/wishboardapp/wishboard-bot/internal/service"
)

// embedColor is the accent used on announcement embeds.
const embedColor = 0x1B2838

// buildEmbed renders one wishlist announcement as a rich embed. The store
// link in the URL is what later identifies the message as an announcement.
func buildEmbed(a service.Announcement) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       a.Title,
		URL:         a.URL,
		Description: a.Description,
		Color:       embedColor,
	}

	if a.HeaderImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: a.HeaderImageURL}
	}

	if a.Price != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Price",
			Value:  a.Price,
			Inline: true,
		})
	}
	if len(a.Genres) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Genres",
			Value:  strings.Join(a.Genres, ", "),
			Inline: true,
		})
	}
	if len(a.Categories) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Categories",
			Value:  strings.Join(a.Categories, ", "),
			Inline: false,
		})
	}

	if a.Suggester != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Suggested by " + a.Suggester,
		}
	}

	return embed
}
