package scraper

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PriceNotAvailable is the sentinel price for records without a parsable price.
const PriceNotAvailable = "not available"

// collectedAtFormat is the timestamp format of ResultRecord.CollectedAt.
const collectedAtFormat = "Jan 2, 2006 15:04"

// FetchMode selects how a store's search page is obtained.
type FetchMode string

const (
	// FetchModeStatic fetches raw markup with a plain HTTP GET
	FetchModeStatic FetchMode = "static"
	// FetchModeRendered obtains markup after JavaScript execution via the page renderer
	FetchModeRendered FetchMode = "rendered"
)

// StoreDescriptor identifies a retailer's site and how to search it.
// Supplied by the caller and read-only for the duration of one request.
type StoreDescriptor struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	BaseURL           string `json:"base_url"`
	SearchURLTemplate string `json:"search_url_template,omitempty"`
	Source            string `json:"source,omitempty"`
}

// Mode returns the caller-requested fetch mode, or empty when the store
// leaves the choice to its strategy.
func (s StoreDescriptor) Mode() FetchMode {
	switch FetchMode(s.Source) {
	case FetchModeStatic, FetchModeRendered:
		return FetchMode(s.Source)
	}
	return ""
}

// ResultRecord represents one product observation, or a failure placeholder.
// Exactly one is produced per store per request.
type ResultRecord struct {
	StoreID     string `json:"store_id"`
	StoreName   string `json:"store_name"`
	ItemName    string `json:"item_name"`
	Price       string `json:"price"`
	Unit        string `json:"unit"`
	ProductURL  string `json:"product_url"`
	Notes       string `json:"notes"`
	CollectedAt string `json:"collected_at"`
}

// NewPlaceholder builds the failure record that stands in for a genuine
// extraction, preserving the one-record-per-store invariant.
func NewPlaceholder(store StoreDescriptor, query, productURL, notes string) ResultRecord {
	return ResultRecord{
		StoreID:     store.ID,
		StoreName:   store.Name,
		ItemName:    query,
		Price:       PriceNotAvailable,
		Unit:        "each",
		ProductURL:  productURL,
		Notes:       notes,
		CollectedAt: CollectedNow(),
	}
}

// CollectedNow returns the current time in the record timestamp format.
func CollectedNow() string {
	return time.Now().Format(collectedAtFormat)
}

// Product is a candidate extracted from one product container.
type Product struct {
	Name  string
	Price string
	URL   string
	Notes string
}

// NotesHandlerFunc extracts store-specific extras from a product container.
type NotesHandlerFunc func(*goquery.Selection) string

// URLHandlerFunc extracts the canonical product URL from a container.
type URLHandlerFunc func(*goquery.Selection, string) string
