package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wishboardapp/wishboard-bot/internal/catalog"
	"github.com/wishboardapp/wishboard-bot/internal/classify"
	"github.com/wishboardapp/wishboard-bot/internal/errors"
	"github.com/wishboardapp/wishboard-bot/internal/wishlist"
)

// maxDescriptionLen bounds the announcement description text.
const maxDescriptionLen = 300

// maxAutocompleteChoices bounds suggestion lists for in-progress queries.
const maxAutocompleteChoices = 5

// ChannelConfig maps the submission and display channels.
type ChannelConfig struct {
	// Submit is the only channel where submissions are accepted.
	Submit string
	// Single receives single-player announcements.
	Single string
	// Multi receives multiplayer announcements.
	Multi string
}

// SubmitRequest is one wishlist submission.
type SubmitRequest struct {
	ChannelID string
	Query     string
	Suggester string
}

// SubmitResult reports a stored and announced entry.
type SubmitResult struct {
	Entry     wishlist.Entry
	Mode      classify.Mode
	MessageID string
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string
	Value string
}

// SubmissionService drives a submission from free-text query to stored,
// announced wishlist entry.
type SubmissionService struct {
	resolver  Resolver
	store     *wishlist.Store
	announcer Announcer
	channels  ChannelConfig
	logger    *slog.Logger
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(resolver Resolver, store *wishlist.Store, announcer Announcer, channels ChannelConfig, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		resolver:  resolver,
		store:     store,
		announcer: announcer,
		channels:  channels,
		logger:    logger,
	}
}

// Submit validates, resolves, classifies, dedups, stores and announces one
// submission. Any failure short-circuits without mutating the store.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.ChannelID != s.channels.Submit {
		return nil, errors.Validation("Wishlist submissions only work in the submissions channel.")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.Validation("Give me a game name to look up.")
	}

	candidates, err := s.resolver.Search(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "catalog search failed")
	}
	if len(candidates) == 0 {
		return nil, errors.NotFoundf("No games found matching %q.", query)
	}

	chosen := pickCandidate(candidates, query)

	detail, err := s.resolver.FetchDetails(ctx, chosen.AppID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, errors.NotFoundf("Couldn't load store details for %q.", chosen.Name)
		}
		return nil, errors.Wrap(err, errors.CodeUnavailable, "catalog details failed")
	}

	mode := classify.Classify(detail.Categories)
	if mode == classify.ModeUnknown {
		return nil, errors.Validationf("Couldn't tell if %q is single-player or multiplayer, so it wasn't added.", detail.Name)
	}

	col := collectionFor(mode)
	if s.store.Contains(col, chosen.AppID) {
		return nil, errors.AlreadyExistsf("%q is already on the %s wishlist.", detail.Name, col)
	}

	entry := wishlist.Entry{
		Name:      detail.Name,
		AppID:     chosen.AppID,
		Suggester: req.Suggester,
	}
	if err := s.store.Insert(col, entry); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "store wishlist entry")
	}

	messageID, err := s.announcer.PostAnnouncement(ctx, s.channelFor(mode), Announcement{
		Title:          detail.Name,
		URL:            detail.URL,
		Description:    truncateDescription(detail.Description),
		Price:          detail.Price,
		HeaderImageURL: detail.HeaderImageURL,
		Genres:         detail.Genres,
		Categories:     detail.Categories,
		Suggester:      req.Suggester,
	})
	if err != nil {
		// Keep the entry-has-one-announcement invariant: without a
		// posted message the entry could never complete.
		if removeErr := s.store.RemoveByAppID(chosen.AppID); removeErr != nil {
			s.logger.Error("rollback after failed announcement",
				"app_id", chosen.AppID,
				"error", removeErr,
			)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "post announcement")
	}

	s.logger.Info("wishlist entry added",
		"name", detail.Name,
		"app_id", chosen.AppID,
		"mode", mode.String(),
		"suggester", req.Suggester,
	)

	return &SubmitResult{Entry: entry, Mode: mode, MessageID: messageID}, nil
}

// Autocomplete suggests titles for an in-progress query. Resolver errors
// degrade to an empty suggestion list rather than surfacing to the user.
func (s *SubmissionService) Autocomplete(ctx context.Context, partial string) []Choice {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return nil
	}

	candidates, err := s.resolver.Search(ctx, partial)
	if err != nil {
		s.logger.Debug("autocomplete search failed",
			"query", partial,
			"error", err,
		)
		return nil
	}

	choices := make([]Choice, 0, min(len(candidates), maxAutocompleteChoices))
	for _, c := range candidates {
		choices = append(choices, Choice{Name: c.Name, Value: c.Name})
		if len(choices) == maxAutocompleteChoices {
			break
		}
	}
	return choices
}

// pickCandidate prefers an exact case-insensitive name match, falling back
// to the first (most relevant) candidate.
func pickCandidate(candidates []catalog.SearchResult, query string) catalog.SearchResult {
	for _, c := range candidates {
		if strings.EqualFold(c.Name, query) {
			return c
		}
	}
	return candidates[0]
}

// collectionFor maps a play mode to the collection its dedup check and
// insert target. Anything that is not multiplayer files as single-player.
func collectionFor(mode classify.Mode) wishlist.Collection {
	if mode == classify.ModeMulti {
		return wishlist.CollectionMulti
	}
	return wishlist.CollectionSingle
}

// channelFor maps a play mode to its display channel.
func (s *SubmissionService) channelFor(mode classify.Mode) string {
	if mode == classify.ModeMulti {
		return s.channels.Multi
	}
	return s.channels.Single
}

// truncateDescription caps the description for embed rendering.
func truncateDescription(desc string) string {
	runes := []rune(desc)
	if len(runes) <= maxDescriptionLen {
		return desc
	}
	return string(runes[:maxDescriptionLen]) + "..."
}
