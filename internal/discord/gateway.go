// Package discord adapts the chat platform to the service layer: gateway
// session management, slash-command handling and the guild/announcer
// surfaces the services consume.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/wishboardapp/wishboard-bot/internal/service"
)

const (
	// memberPageSize is the API maximum for one member list page.
	memberPageSize = 1000
	// reactionPageSize is the API maximum for one reaction user page.
	reactionPageSize = 100
)

// Gateway implements service.Guild and service.Announcer on top of a
// discordgo session.
type Gateway struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// NewGateway creates a gateway around an open session.
func NewGateway(session *discordgo.Session, logger *slog.Logger) *Gateway {
	return &Gateway{session: session, logger: logger}
}

// PostAnnouncement sends the rich embed for one wishlist entry and returns
// the posted message id.
func (g *Gateway) PostAnnouncement(ctx context.Context, channelID string, a service.Announcement) (string, error) {
	msg, err := g.session.ChannelMessageSendEmbed(channelID, buildEmbed(a), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("post announcement to %s: %w", channelID, err)
	}
	return msg.ID, nil
}

// GuildMembers fetches the full member list page by page and resolves role
// ids to names so the completion monitor can filter bot-ish roles.
func (g *Gateway) GuildMembers(ctx context.Context, guildID string) ([]service.Member, error) {
	roleNames, err := g.roleNames(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild roles: %w", err)
	}

	var members []service.Member
	after := ""
	for {
		page, err := g.session.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch guild members: %w", err)
		}
		for _, m := range page {
			members = append(members, convertMember(m, roleNames))
		}
		if len(page) < memberPageSize {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// CachedGuildMembers returns the session state's member list. The cache
// may be partial or stale; callers treat it as a degraded fallback.
func (g *Gateway) CachedGuildMembers(guildID string) []service.Member {
	guild, err := g.session.State.Guild(guildID)
	if err != nil {
		return nil
	}

	roleNames := make(map[string]string, len(guild.Roles))
	for _, r := range guild.Roles {
		roleNames[r.ID] = r.Name
	}

	members := make([]service.Member, 0, len(guild.Members))
	for _, m := range guild.Members {
		members = append(members, convertMember(m, roleNames))
	}
	return members
}

// Message fetches a message and reduces it to the embed and reaction
// summary the completion monitor needs.
func (g *Gateway) Message(ctx context.Context, channelID, messageID string) (*service.Message, error) {
	m, err := g.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", messageID, err)
	}

	msg := &service.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
	}
	if len(m.Embeds) > 0 {
		msg.HasEmbed = true
		msg.EmbedTitle = m.Embeds[0].Title
		msg.EmbedURL = m.Embeds[0].URL
	}
	for _, r := range m.Reactions {
		msg.Reactions = append(msg.Reactions, r.Emoji.APIName())
	}
	return msg, nil
}

// ReactionUsers fetches every user who reacted with one emoji, following
// pagination past the 100-user page limit.
func (g *Gateway) ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]service.User, error) {
	var users []service.User
	after := ""
	for {
		page, err := g.session.MessageReactions(channelID, messageID, emoji, reactionPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch reaction users for %s: %w", emoji, err)
		}
		for _, u := range page {
			users = append(users, service.User{ID: u.ID, Bot: u.Bot})
		}
		if len(page) < reactionPageSize {
			return users, nil
		}
		after = page[len(page)-1].ID
	}
}

// VoiceChannelNames lists voice channel names under the given category. An
// empty parentID matches voice channels anywhere in the guild.
func (g *Gateway) VoiceChannelNames(ctx context.Context, guildID, parentID string) ([]string, error) {
	channels, err := g.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch guild channels: %w", err)
	}

	var names []string
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildVoice {
			continue
		}
		if parentID != "" && ch.ParentID != parentID {
			continue
		}
		names = append(names, ch.Name)
	}
	return names, nil
}

// CreateVoiceChannel creates a voice channel under the given category.
func (g *Gateway) CreateVoiceChannel(ctx context.Context, guildID, name, parentID string) error {
	_, err := g.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: parentID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create voice channel %q: %w", name, err)
	}
	return nil
}

// DeleteMessage deletes a message.
func (g *Gateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := g.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	return nil
}

// roleNames maps role ids to names for one guild.
func (g *Gateway) roleNames(ctx context.Context, guildID string) (map[string]string, error) {
	roles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	return names, nil
}

func convertMember(m *discordgo.Member, roleNames map[string]string) service.Member {
	out := service.Member{
		UserID: m.User.ID,
		Bot:    m.User.Bot,
	}
	for _, roleID := range m.Roles {
		if name, ok := roleNames[roleID]; ok {
			out.RoleNames = append(out.RoleNames, name)
		}
	}
	return out
}
