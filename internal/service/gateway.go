// Package service provides the business logic layer: wishlist submission
// handling and reaction-completion monitoring. Services accept narrow
// gateway interfaces; all chat-platform I/O lives in the adapter.
package service

import (
	"context"

	"github.com/wishboardapp/wishboard-bot/internal/catalog"
)

// Member is a guild member as seen by the completion monitor.
type Member struct {
	UserID    string
	Bot       bool
	RoleNames []string
}

// User is a reacting user.
type User struct {
	ID  string
	Bot bool
}

// Message is the slice of a chat message the completion monitor needs:
// the first embed and the set of reaction emoji present.
type Message struct {
	ID         string
	ChannelID  string
	EmbedTitle string
	EmbedURL   string
	HasEmbed   bool
	// Reactions holds the API name of every reaction emoji on the
	// message, one per emoji regardless of count.
	Reactions []string
}

// Announcement is the rich message posted for one wishlist entry.
type Announcement struct {
	Title          string
	URL            string
	Description    string
	Price          string
	HeaderImageURL string
	Genres         []string
	Categories     []string
	Suggester      string
}

// Announcer posts announcements to a display channel.
type Announcer interface {
	PostAnnouncement(ctx context.Context, channelID string, a Announcement) (messageID string, err error)
}

// Guild is the member, reaction, message and channel surface the
// completion monitor consumes.
type Guild interface {
	// GuildMembers fetches the authoritative member list.
	GuildMembers(ctx context.Context, guildID string) ([]Member, error)
	// CachedGuildMembers returns the adapter's possibly-stale local
	// member list, used when the authoritative fetch fails.
	CachedGuildMembers(guildID string) []Member
	// Message fetches a message with its embeds and reaction summary.
	Message(ctx context.Context, channelID, messageID string) (*Message, error)
	// ReactionUsers fetches every user who reacted with one emoji.
	ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]User, error)
	// VoiceChannelNames lists voice channel names under a category.
	VoiceChannelNames(ctx context.Context, guildID, parentID string) ([]string, error)
	// CreateVoiceChannel creates a voice channel under a category.
	CreateVoiceChannel(ctx context.Context, guildID, name, parentID string) error
	// DeleteMessage deletes a message.
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// Resolver is the catalog surface the submission handler consumes.
type Resolver interface {
	Search(ctx context.Context, query string) ([]catalog.SearchResult, error)
	FetchDetails(ctx context.Context, appID int) (*catalog.Detail, error)
}
