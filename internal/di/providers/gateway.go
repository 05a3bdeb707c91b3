package providers

import (
	"github.com/bwmarrin/discordgo"
	"github.com/samber/do/v2"

	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/discord"
	"github.com/wishboardapp/wishboard-bot/internal/logger"
	"github.com/wishboardapp/wishboard-bot/internal/service"
)

// ProvideSession provides the configured, unopened gateway session.
func ProvideSession(i do.Injector) (*discordgo.Session, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return discord.NewSession(cfg.Discord.Token)
}

// ProvideGateway provides the guild/announcer adapter over the session.
func ProvideGateway(i do.Injector) (*discord.Gateway, error) {
	session := do.MustInvoke[*discordgo.Session](i)
	log := do.MustInvoke[*logger.Logger](i)
	return discord.NewGateway(session, log.Logger), nil
}

// BotHandle wraps the bot with Shutdownable.
type BotHandle struct {
	*discord.Bot
}

// Shutdown implements do.Shutdownable.
func (h *BotHandle) Shutdown() error {
	return h.Bot.Close()
}

// ProvideBot provides the connected, command-registered bot.
func ProvideBot(i do.Injector) (*BotHandle, error) {
	session := do.MustInvoke[*discordgo.Session](i)
	submissions := do.MustInvoke[*service.SubmissionService](i)
	completions := do.MustInvoke[*service.CompletionService](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	bot := discord.NewBot(session, submissions, completions, cfg.Discord, log.Logger)
	if err := bot.Start(); err != nil {
		return nil, err
	}

	return &BotHandle{Bot: bot}, nil
}
