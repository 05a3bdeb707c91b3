// Package catalog provides a client for the Steam storefront API and a
// durable query cache over its search endpoint.
package catalog

// SearchResult is one candidate title from a storefront search.
type SearchResult struct {
	Name  string `json:"name"`
	AppID int    `json:"appId"`
	URL   string `json:"url"`
}

// Detail is the canonical storefront record for one app.
//
// Derived fields fall back to defaults when the storefront omits them:
// Description to a placeholder, Price to "Free" or "Unknown", Categories
// and Genres to empty slices.
type Detail struct {
	Name           string
	Description    string
	Price          string
	HeaderImageURL string
	URL            string
	Categories     []string
	Genres         []string
}

// Raw storefront response types (internal).

type rawSearchResponse struct {
	Total int             `json:"total"`
	Items []rawSearchItem `json:"items"`
}

type rawSearchItem struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   int    `json:"id"`
}

type rawAppDetails struct {
	Success bool       `json:"success"`
	Data    rawAppData `json:"data"`
}

type rawAppData struct {
	Name                string          `json:"name"`
	SteamAppID          int             `json:"steam_appid"`
	IsFree              bool            `json:"is_free"`
	ShortDescription    string          `json:"short_description"`
	DetailedDescription string          `json:"detailed_description"`
	HeaderImage         string          `json:"header_image"`
	PriceOverview       *rawPrice       `json:"price_overview"`
	Categories          []rawDescriptor `json:"categories"`
	Genres              []rawDescriptor `json:"genres"`
}

type rawPrice struct {
	FinalFormatted string `json:"final_formatted"`
}

type rawDescriptor struct {
	Description string `json:"description"`
}
