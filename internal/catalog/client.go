package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://store.steampowered.com"

	// The storefront search is the only call on the submission hot path
	// with a hard deadline; a slow search degrades to "no results".
	searchTimeout  = 1500 * time.Millisecond
	detailsTimeout = 10 * time.Second

	// Storefront region and language parameters.
	countryCode = "US"
	language    = "english"

	// maxSearchResults bounds how many candidates a search returns.
	maxSearchResults = 10
)

// descriptionFallback is used when the storefront record has no description.
const descriptionFallback = "No description available."

// Client is a rate-limited Steam storefront API client.
type Client struct {
	http        *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// New creates a new storefront client.
// Rate limited to roughly 1 request per second with a small burst, which
// keeps a low-traffic guild well under the storefront's informal limits.
func New(logger *slog.Logger) *Client {
	return NewWithBaseURL(logger, defaultBaseURL)
}

// NewWithBaseURL creates a client against a specific storefront base URL.
// Used by tests to point at an httptest server.
func NewWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		http:        &http.Client{Timeout: detailsTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		baseURL:     baseURL,
	}
}

// Search queries the storefront for titles matching the free-text term.
// Returns at most maxSearchResults candidates; an empty slice is a valid
// successful result. The call is bounded by searchTimeout.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("term", term)
	query.Set("l", language)
	query.Set("cc", countryCode)

	body, err := c.doRequest(ctx, "/api/storesearch/", query)
	if err != nil {
		return nil, wrapError("search", 0, err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", 0, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	results := make([]SearchResult, 0, min(len(resp.Items), maxSearchResults))
	for i := range resp.Items {
		item := &resp.Items[i]
		if item.Type != "" && item.Type != "app" {
			continue
		}
		results = append(results, SearchResult{
			Name:  item.Name,
			AppID: item.ID,
			URL:   c.appURL(item.ID),
		})
		if len(results) == maxSearchResults {
			break
		}
	}

	c.logger.Debug("storefront search",
		"term", term,
		"count", len(results),
	)

	return results, nil
}

// FetchDetails retrieves the canonical record for one app.
// Returns ErrNotFound when the storefront reports no such app or an
// unusable record. Never cached; the announcement always reflects the
// storefront's current data.
func (c *Client) FetchDetails(ctx context.Context, appID int) (*Detail, error) {
	query := url.Values{}
	query.Set("appids", strconv.Itoa(appID))
	query.Set("l", language)

	body, err := c.doRequest(ctx, "/api/appdetails", query)
	if err != nil {
		return nil, wrapError("fetchDetails", appID, err)
	}

	// The appdetails endpoint wraps the record in an envelope keyed by the
	// requested id: {"620": {"success": true, "data": {...}}}.
	var envelope map[string]rawAppDetails
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, wrapError("fetchDetails", appID, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	entry, ok := envelope[strconv.Itoa(appID)]
	if !ok || !entry.Success || entry.Data.Name == "" {
		return nil, wrapError("fetchDetails", appID, ErrNotFound)
	}

	return c.buildDetail(appID, &entry.Data), nil
}

// buildDetail converts a raw storefront record applying fallback defaults.
func (c *Client) buildDetail(appID int, data *rawAppData) *Detail {
	description := data.ShortDescription
	if description == "" {
		description = data.DetailedDescription
	}
	if description == "" {
		description = descriptionFallback
	} else {
		description = htmlToMarkdown(description)
	}

	price := "Unknown"
	switch {
	case data.IsFree:
		price = "Free"
	case data.PriceOverview != nil && data.PriceOverview.FinalFormatted != "":
		price = data.PriceOverview.FinalFormatted
	}

	categories := make([]string, 0, len(data.Categories))
	for _, cat := range data.Categories {
		categories = append(categories, cat.Description)
	}
	genres := make([]string, 0, len(data.Genres))
	for _, genre := range data.Genres {
		genres = append(genres, genre.Description)
	}

	return &Detail{
		Name:           data.Name,
		Description:    description,
		Price:          price,
		HeaderImageURL: data.HeaderImage,
		URL:            c.appURL(appID),
		Categories:     categories,
		Genres:         genres,
	}
}

// appURL returns the public store page for an app.
func (c *Client) appURL(appID int) string {
	return fmt.Sprintf("https://store.steampowered.com/app/%d", appID)
}

// doRequest executes a rate-limited GET against the storefront.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Wishboard/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return body, nil
}
