package providers

import (
	"github.com/samber/do/v2"

	"github.com/wishboardapp/wishboard-bot/internal/catalog"
	"github.com/wishboardapp/wishboard-bot/internal/config"
	"github.com/wishboardapp/wishboard-bot/internal/discord"
	"github.com/wishboardapp/wishboard-bot/internal/logger"
	"github.com/wishboardapp/wishboard-bot/internal/service"
)

// ProvideSubmissionService provides the submission pipeline.
func ProvideSubmissionService(i do.Injector) (*service.SubmissionService, error) {
	resolver := do.MustInvoke[*catalog.Resolver](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gateway := do.MustInvoke[*discord.Gateway](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	channels := service.ChannelConfig{
		Submit: cfg.Discord.SubmitChannelID,
		Single: cfg.Discord.SingleChannelID,
		Multi:  cfg.Discord.MultiChannelID,
	}

	return service.NewSubmissionService(resolver, storeHandle.Store, gateway, channels, log.Logger), nil
}

// ProvideCompletionService provides the reaction-quorum monitor.
func ProvideCompletionService(i do.Injector) (*service.CompletionService, error) {
	gateway := do.MustInvoke[*discord.Gateway](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	voice := service.VoiceConfig{CategoryID: cfg.Discord.VoiceCategoryID}

	return service.NewCompletionService(gateway, storeHandle.Store, voice, log.Logger), nil
}
