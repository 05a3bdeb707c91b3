package service

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wishboardapp/wishboard-bot/internal/wishlist"
)

// maxChannelNameLen is the platform limit on channel names, minus headroom.
const maxChannelNameLen = 90

// storefrontHost identifies announcement-shaped embeds by their link.
const storefrontHost = "store.steampowered.com"

// appIDPattern extracts the catalog id from an announcement's store link.
var appIDPattern = regexp.MustCompile(`/app/(\d+)`)

// ReactionEvent is one reaction-add delivery from the gateway.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	UserIsBot bool
}

// VoiceConfig holds voice channel provisioning settings.
type VoiceConfig struct {
	// CategoryID is the parent category for created channels.
	CategoryID string
}

// CompletionService watches announcement reactions and retires entries
// once every counted human member has reacted.
type CompletionService struct {
	gateway Guild
	store   *wishlist.Store
	voice   VoiceConfig
	logger  *slog.Logger
	titler  cases.Caser
}

// NewCompletionService creates a new completion service.
func NewCompletionService(gateway Guild, store *wishlist.Store, voice VoiceConfig, logger *slog.Logger) *CompletionService {
	return &CompletionService{
		gateway: gateway,
		store:   store,
		voice:   voice,
		logger:  logger,
		titler:  cases.Title(language.English),
	}
}

// HandleReaction runs the quorum check for one reaction-add event.
//
// Quorum compares counts, not identities: distinct human reactors across
// every emoji on the message against the current human member count. A
// reactor who has since left the guild still counts toward quorum; that
// approximation is accepted.
func (c *CompletionService) HandleReaction(ctx context.Context, ev ReactionEvent) error {
	if ev.UserIsBot {
		return nil
	}

	msg, err := c.gateway.Message(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		c.logger.Warn("fetch reacted message failed",
			"channel_id", ev.ChannelID,
			"message_id", ev.MessageID,
			"error", err,
		)
		return err
	}

	if !isAnnouncement(msg) {
		return nil
	}

	totalHumans := c.countHumans(ctx, ev.GuildID)
	if totalHumans == 0 {
		// A guild always contains at least the reacting human; zero means
		// the member read failed entirely. Completing against an unknown
		// membership would wipe the entry on a transient fault.
		c.logger.Warn("member data unavailable, deferring quorum check",
			"guild_id", ev.GuildID,
			"message_id", msg.ID,
		)
		return nil
	}

	reactors := c.uniqueReactors(ctx, msg)

	if len(reactors) < totalHumans {
		c.logger.Debug("quorum not reached",
			"message_id", msg.ID,
			"reactors", len(reactors),
			"humans", totalHumans,
		)
		return nil
	}

	c.logger.Info("quorum reached",
		"message_id", msg.ID,
		"title", msg.EmbedTitle,
		"reactors", len(reactors),
		"humans", totalHumans,
	)

	appID, ok := extractAppID(msg.EmbedURL)
	if ok {
		// Multiplayer membership must be read before the dual-collection
		// removal wipes it.
		isMulti := c.store.IsMulti(appID)

		if err := c.store.RemoveByAppID(appID); err != nil {
			c.logger.Error("remove completed entry failed",
				"app_id", appID,
				"error", err,
			)
		}

		if isMulti {
			c.provisionVoiceChannel(ctx, ev.GuildID, msg.EmbedTitle)
		}
	} else {
		c.logger.Warn("announcement without extractable app id",
			"message_id", msg.ID,
			"url", msg.EmbedURL,
		)
	}

	// The message may already be gone; deletion failures are non-fatal.
	if err := c.gateway.DeleteMessage(ctx, ev.ChannelID, msg.ID); err != nil {
		c.logger.Warn("delete announcement failed",
			"message_id", msg.ID,
			"error", err,
		)
	}

	return nil
}

// countHumans computes the eligible member count: everyone except bot
// accounts and holders of a role whose name contains "bot". Falls back to
// the adapter's cached member list when the authoritative fetch fails.
func (c *CompletionService) countHumans(ctx context.Context, guildID string) int {
	members, err := c.gateway.GuildMembers(ctx, guildID)
	if err != nil {
		c.logger.Warn("member fetch failed, using cached member list",
			"guild_id", guildID,
			"error", err,
		)
		members = c.gateway.CachedGuildMembers(guildID)
	}

	count := 0
	for _, m := range members {
		if isHuman(m) {
			count++
		}
	}
	return count
}

// isHuman filters bot accounts and members holding a bot-ish role.
func isHuman(m Member) bool {
	if m.Bot {
		return false
	}
	for _, role := range m.RoleNames {
		if strings.Contains(strings.ToLower(role), "bot") {
			return false
		}
	}
	return true
}

// uniqueReactors unions distinct non-bot reactor ids across every
// reaction emoji present on the message, not just the triggering one.
func (c *CompletionService) uniqueReactors(ctx context.Context, msg *Message) map[string]struct{} {
	reactors := make(map[string]struct{})
	for _, emoji := range msg.Reactions {
		users, err := c.gateway.ReactionUsers(ctx, msg.ChannelID, msg.ID, emoji)
		if err != nil {
			// Undercounting only delays completion until the next
			// reaction event.
			c.logger.Warn("reaction user fetch failed",
				"message_id", msg.ID,
				"emoji", emoji,
				"error", err,
			)
			continue
		}
		for _, u := range users {
			if !u.Bot {
				reactors[u.ID] = struct{}{}
			}
		}
	}
	return reactors
}

// provisionVoiceChannel creates a voice channel named after the completed
// game unless one already exists. Failures are logged and swallowed.
func (c *CompletionService) provisionVoiceChannel(ctx context.Context, guildID, title string) {
	name := c.ChannelName(title)
	if name == "" {
		return
	}

	existing, err := c.gateway.VoiceChannelNames(ctx, guildID, c.voice.CategoryID)
	if err != nil {
		c.logger.Warn("list voice channels failed",
			"guild_id", guildID,
			"error", err,
		)
		existing = nil
	}
	for _, n := range existing {
		if strings.EqualFold(n, name) {
			return
		}
	}

	if err := c.gateway.CreateVoiceChannel(ctx, guildID, name, c.voice.CategoryID); err != nil {
		c.logger.Warn("create voice channel failed",
			"name", name,
			"error", err,
		)
		return
	}

	c.logger.Info("voice channel created",
		"name", name,
		"category_id", c.voice.CategoryID,
	)
}

// ChannelName derives the voice channel name from an announcement title:
// each word capitalized, remainder lower-cased, capped at the platform's
// channel name length.
func (c *CompletionService) ChannelName(title string) string {
	name := c.titler.String(strings.TrimSpace(title))
	runes := []rune(name)
	if len(runes) > maxChannelNameLen {
		name = string(runes[:maxChannelNameLen])
	}
	return name
}

// isAnnouncement reports whether the message carries an
// announcement-shaped embed: one linking to the storefront.
func isAnnouncement(msg *Message) bool {
	return msg.HasEmbed && strings.Contains(msg.EmbedURL, storefrontHost)
}

// extractAppID pulls the numeric catalog id out of a store link.
func extractAppID(url string) (int, bool) {
	m := appIDPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
