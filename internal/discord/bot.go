package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wishboardapp/wishboard-bot/internal/classify"
	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/errors"
	"github.com/wishboardapp/wishboard-bot/internal/id"
	"github.com/wishboardapp/wishboard-bot/internal/service"
)

const (
	commandName   = "wishlist"
	optionGame    = "game"
	handleTimeout = 30 * time.Second
)

// NewSession creates a configured but unopened gateway session.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions
	return session, nil
}

// Bot wires gateway events to the submission and completion services.
type Bot struct {
	session     *discordgo.Session
	submissions *service.SubmissionService
	completions *service.CompletionService
	cfg         config.DiscordConfig
	logger      *slog.Logger
}

// NewBot creates the event-handling bot.
func NewBot(session *discordgo.Session, submissions *service.SubmissionService, completions *service.CompletionService, cfg config.DiscordConfig, logger *slog.Logger) *Bot {
	return &Bot{
		session:     session,
		submissions: submissions,
		completions: completions,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start attaches handlers, opens the gateway connection and registers the
// guild slash commands.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onReactionAdd)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	// Bulk overwrite keeps registration idempotent across restarts.
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.AppID, b.cfg.GuildID, commands()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	b.logger.Info("gateway connected",
		"guild_id", b.cfg.GuildID,
		"command", "/"+commandName,
	)
	return nil
}

// Close closes the gateway connection.
func (b *Bot) Close() error {
	return b.session.Close()
}

// commands defines the guild slash commands.
func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandName,
			Description: "Add a game to the community wishlist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         optionGame,
					Description:  "Name of the game to look up",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	}
}

// handleCommand runs one /wishlist submission. The response is deferred
// because catalog lookups can exceed the 3-second interaction window.
func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	evtID := id.MustGenerate("sub")
	query := optionValue(data.Options, optionGame)
	suggester := displayName(i)

	log := b.logger.With("event_id", evtID, "query", query, "suggester", suggester)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Error("defer interaction response failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	result, err := b.submissions.Submit(ctx, service.SubmitRequest{
		ChannelID: i.ChannelID,
		Query:     query,
		Suggester: suggester,
	})

	var reply string
	if err != nil {
		log.Warn("submission rejected", "error", err)
		reply = errors.UserMessage(err)
	} else {
		reply = fmt.Sprintf("Added **%s** to the %s wishlist!", result.Entry.Name, modeLabel(result.Mode))
		log.Info("submission accepted", "app_id", result.Entry.AppID, "message_id", result.MessageID)
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}); err != nil {
		log.Error("edit interaction response failed", "error", err)
	}
}

// handleAutocomplete answers the in-progress query with up to five title
// suggestions. Failures degrade to an empty list inside the service.
func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	choices := b.submissions.Autocomplete(ctx, focusedValue(data.Options))

	resp := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, c := range choices {
		resp = append(resp, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Name,
			Value: c.Value,
		})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: resp},
	})
	if err != nil {
		b.logger.Debug("autocomplete response failed", "error", err)
	}
}

func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID != b.cfg.GuildID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	_ = b.completions.HandleReaction(ctx, service.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		UserIsBot: reactorIsBot(s, r),
	})
}

// reactorIsBot checks the event's member payload first, falling back to
// comparing against our own session user.
func reactorIsBot(s *discordgo.Session, r *discordgo.MessageReactionAdd) bool {
	if r.Member != nil && r.Member.User != nil {
		return r.Member.User.Bot
	}
	return s.State.User != nil && r.UserID == s.State.User.ID
}

// optionValue returns the string value of a named option.
func optionValue(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// focusedValue returns the value of the option being typed.
func focusedValue(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, opt := range options {
		if opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

// modeLabel renders a play mode for user-facing replies.
func modeLabel(m classify.Mode) string {
	if m == classify.ModeMulti {
		return "multiplayer"
	}
	return "single-player"
}

// displayName picks the richest available name for the submitting user:
// guild nickname, then global display name, then username.
func displayName(i *discordgo.InteractionCreate) string {
	user := i.User
	if i.Member != nil {
		if i.Member.Nick != "" {
			return i.Member.Nick
		}
		user = i.Member.User
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
