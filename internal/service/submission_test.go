package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishboardapp/wishboard-bot/internal/catalog"
	"github.com/wishboardapp/wishboard-bot/internal/classify"
	"github.com/wishboardapp/wishboard-bot/internal/errors"
	"github.com/wishboardapp/wishboard-bot/internal/wishlist"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var testChannels = ChannelConfig{
	Submit: "submit-chan",
	Single: "single-chan",
	Multi:  "multi-chan",
}

// fakeResolver serves canned search results and details.
type fakeResolver struct {
	results   []catalog.SearchResult
	searchErr error
	details   map[int]*catalog.Detail
	detailErr error
}

func (f *fakeResolver) Search(context.Context, string) ([]catalog.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeResolver) FetchDetails(_ context.Context, appID int) (*catalog.Detail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	d, ok := f.details[appID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

// fakeAnnouncer records posted announcements.
type fakeAnnouncer struct {
	posted    []Announcement
	channels  []string
	postErr   error
	messageID string
}

func (f *fakeAnnouncer) PostAnnouncement(_ context.Context, channelID string, a Announcement) (string, error) {
	if f.postErr != nil {
		return "", f.postErr
	}
	f.posted = append(f.posted, a)
	f.channels = append(f.channels, channelID)
	if f.messageID == "" {
		return "msg-1", nil
	}
	return f.messageID, nil
}

func portal2Resolver() *fakeResolver {
	return &fakeResolver{
		results: []catalog.SearchResult{
			{Name: "Portal 2", AppID: 620, URL: "https://store.steampowered.com/app/620"},
		},
		details: map[int]*catalog.Detail{
			620: {
				Name:        "Portal 2",
				Description: "The highly anticipated sequel.",
				Price:       "$9.99",
				URL:         "https://store.steampowered.com/app/620",
				Categories:  []string{"Single-player", "Co-op"},
				Genres:      []string{"Action"},
			},
		},
	}
}

func newTestStore(t *testing.T) *wishlist.Store {
	t.Helper()
	store, err := wishlist.Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	return store
}

func TestSubmit_WrongChannelRejected(t *testing.T) {
	store := newTestStore(t)
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(portal2Resolver(), store, announcer, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: "some-other-channel",
		Query:     "Portal 2",
		Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Empty(t, announcer.posted)
	assert.False(t, store.Contains(wishlist.CollectionMulti, 620))
}

func TestSubmit_NoCandidates(t *testing.T) {
	store := newTestStore(t)
	svc := NewSubmissionService(&fakeResolver{}, store, &fakeAnnouncer{}, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "definitely not a game",
		Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSubmit_SearchFailure(t *testing.T) {
	store := newTestStore(t)
	resolver := &fakeResolver{searchErr: fmt.Errorf("%w: 502", catalog.ErrBadStatus)}
	svc := NewSubmissionService(resolver, store, &fakeAnnouncer{}, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "Portal 2",
		Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrUnavailable))
	single, multi := store.Snapshot()
	assert.Empty(t, single)
	assert.Empty(t, multi)
}

func TestSubmit_DetailFailureLeavesStoreUnchanged(t *testing.T) {
	store := newTestStore(t)
	resolver := portal2Resolver()
	resolver.detailErr = fmt.Errorf("%w", catalog.ErrUnreachable)
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(resolver, store, announcer, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "Portal 2",
		Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrUnavailable))
	assert.Empty(t, announcer.posted)
	single, multi := store.Snapshot()
	assert.Empty(t, single)
	assert.Empty(t, multi)
}

func TestSubmit_MissingDetailRecord(t *testing.T) {
	store := newTestStore(t)
	resolver := portal2Resolver()
	resolver.details = nil
	svc := NewSubmissionService(resolver, store, &fakeAnnouncer{}, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "Portal 2",
		Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSubmit_UnknownClassificationRejected(t *testing.T) {
	store := newTestStore(t)
	resolver := portal2Resolver()
	resolver.details[620].Categories = []string{"Steam Achievements"}
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(resolver, store, announcer, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "Portal 2",
		Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Empty(t, announcer.posted)
	single, multi := store.Snapshot()
	assert.Empty(t, single)
	assert.Empty(t, multi)
}

func TestSubmit_Portal2StoredAsMulti(t *testing.T) {
	store := newTestStore(t)
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(portal2Resolver(), store, announcer, testChannels, testLogger())

	result, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "Portal 2",
		Suggester: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, classify.ModeMulti, result.Mode)
	assert.Equal(t, 620, result.Entry.AppID)

	assert.True(t, store.Contains(wishlist.CollectionMulti, 620))
	assert.False(t, store.Contains(wishlist.CollectionSingle, 620), "entry must live only in the multi collection")

	require.Len(t, announcer.posted, 1)
	assert.Equal(t, testChannels.Multi, announcer.channels[0])
	assert.Equal(t, "Portal 2", announcer.posted[0].Title)
	assert.Equal(t, "$9.99", announcer.posted[0].Price)
}

func TestSubmit_SinglePlayerGoesToSingleChannel(t *testing.T) {
	store := newTestStore(t)
	resolver := &fakeResolver{
		results: []catalog.SearchResult{{Name: "The Witness", AppID: 210970}},
		details: map[int]*catalog.Detail{
			210970: {
				Name:        "The Witness",
				Description: "A puzzle island.",
				Price:       "$39.99",
				URL:         "https://store.steampowered.com/app/210970",
				Categories:  []string{"Single-player"},
			},
		},
	}
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(resolver, store, announcer, testChannels, testLogger())

	result, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit,
		Query:     "The Witness",
		Suggester: "bob",
	})

	require.NoError(t, err)
	assert.Equal(t, classify.ModeSingle, result.Mode)
	assert.True(t, store.Contains(wishlist.CollectionSingle, 210970))
	assert.Equal(t, testChannels.Single, announcer.channels[0])
}

func TestSubmit_DuplicateInSameCollectionRejected(t *testing.T) {
	store := newTestStore(t)
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(portal2Resolver(), store, announcer, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit, Query: "Portal 2", Suggester: "alice",
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit, Query: "Portal 2", Suggester: "bob",
	})

	assert.True(t, errors.Is(err, errors.ErrAlreadyExists))
	assert.Len(t, announcer.posted, 1)
	_, multi := store.Snapshot()
	assert.Len(t, multi, 1)
}

func TestSubmit_SameIDInOtherCollectionNotBlocked(t *testing.T) {
	store := newTestStore(t)
	// Pre-seed the single collection with the id the multi submission
	// resolves to; the per-collection dedup must not block it.
	require.NoError(t, store.Insert(wishlist.CollectionSingle, wishlist.Entry{Name: "Portal 2", AppID: 620}))

	svc := NewSubmissionService(portal2Resolver(), store, &fakeAnnouncer{}, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit, Query: "Portal 2", Suggester: "alice",
	})

	require.NoError(t, err)
	assert.True(t, store.Contains(wishlist.CollectionMulti, 620))
}

func TestSubmit_ExactMatchPreferredOverFirst(t *testing.T) {
	store := newTestStore(t)
	resolver := &fakeResolver{
		results: []catalog.SearchResult{
			{Name: "Portal 2 Soundtrack", AppID: 99},
			{Name: "portal 2", AppID: 620},
		},
		details: map[int]*catalog.Detail{
			620: {
				Name:       "Portal 2",
				Price:      "$9.99",
				URL:        "https://store.steampowered.com/app/620",
				Categories: []string{"Co-op"},
			},
		},
	}
	svc := NewSubmissionService(resolver, store, &fakeAnnouncer{}, testChannels, testLogger())

	result, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit, Query: "Portal 2", Suggester: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 620, result.Entry.AppID)
}

func TestSubmit_AnnouncementFailureRollsBackEntry(t *testing.T) {
	store := newTestStore(t)
	announcer := &fakeAnnouncer{postErr: fmt.Errorf("channel gone")}
	svc := NewSubmissionService(portal2Resolver(), store, announcer, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit, Query: "Portal 2", Suggester: "alice",
	})

	assert.True(t, errors.Is(err, errors.ErrInternal))
	assert.False(t, store.Contains(wishlist.CollectionMulti, 620), "entry without an announcement must not linger")
}

func TestSubmit_DescriptionTruncated(t *testing.T) {
	store := newTestStore(t)
	resolver := portal2Resolver()
	resolver.details[620].Description = strings.Repeat("a", 500)
	announcer := &fakeAnnouncer{}
	svc := NewSubmissionService(resolver, store, announcer, testChannels, testLogger())

	_, err := svc.Submit(context.Background(), SubmitRequest{
		ChannelID: testChannels.Submit, Query: "Portal 2", Suggester: "alice",
	})

	require.NoError(t, err)
	desc := announcer.posted[0].Description
	assert.Len(t, []rune(desc), maxDescriptionLen+3)
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestAutocomplete_CapsAtFive(t *testing.T) {
	resolver := &fakeResolver{
		results: []catalog.SearchResult{
			{Name: "a", AppID: 1}, {Name: "b", AppID: 2}, {Name: "c", AppID: 3},
			{Name: "d", AppID: 4}, {Name: "e", AppID: 5}, {Name: "f", AppID: 6},
			{Name: "g", AppID: 7},
		},
	}
	svc := NewSubmissionService(resolver, newTestStore(t), &fakeAnnouncer{}, testChannels, testLogger())

	choices := svc.Autocomplete(context.Background(), "letter")

	assert.Len(t, choices, maxAutocompleteChoices)
	assert.Equal(t, "a", choices[0].Name)
}

func TestAutocomplete_ErrorYieldsEmptyList(t *testing.T) {
	resolver := &fakeResolver{searchErr: fmt.Errorf("%w", catalog.ErrUnreachable)}
	svc := NewSubmissionService(resolver, newTestStore(t), &fakeAnnouncer{}, testChannels, testLogger())

	choices := svc.Autocomplete(context.Background(), "portal")

	assert.Empty(t, choices)
}

func TestAutocomplete_BlankQueryYieldsEmptyList(t *testing.T) {
	svc := NewSubmissionService(portal2Resolver(), newTestStore(t), &fakeAnnouncer{}, testChannels, testLogger())

	assert.Empty(t, svc.Autocomplete(context.Background(), "   "))
}
