package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// Strategy carries everything store-specific about scraping one retailer:
// its default fetch mode, the selector cascades, the search-URL rule, and
// optional handlers for product URLs and notes. Unknown stores get the
// generic strategy; the cascade algorithm itself never changes per store.
type Strategy struct {
	Name               string
	DefaultMode        FetchMode
	ContainerSelectors []string
	TitleSelectors     []string
	PriceSelectors     []string

	// SearchURLFormat is the store's own search URL with one %s for the
	// escaped query. Used when the descriptor has no usable template.
	SearchURLFormat string

	// URLHandler overrides the generic first-anchor product URL rule.
	URLHandler URLHandlerFunc

	// NotesHandler appends store-specific extras (SKU, model, rating).
	// The generic strategy leaves notes empty.
	NotesHandler NotesHandlerFunc

	// Rendered-mode hints: selector to wait for before capturing markup,
	// and whether to scroll to trigger lazy content.
	SettleSelector string
	ScrollToLoad   bool
}

// genericStrategy tries common e-commerce product-card patterns. It is the
// fallback for every store without a dedicated entry in the registry.
var genericStrategy = &Strategy{
	Name:        "Generic",
	DefaultMode: FetchModeStatic,
	ContainerSelectors: []string{
		`[data-testid="product-card"]`,
		`.product-card`,
		`.product-item`,
		`.search-result-product`,
		`[class*="ProductCard"]`,
		`[class*="product-pod"]`,
		`.plp-pod`,
		`.browse-search__pod`,
		`[data-component="ProductCard"]`,
	},
	TitleSelectors: []string{
		`h2`, `h3`, `h4`,
		`.product-title`, `.product-name`,
		`[class*="title"]`, `[class*="name"]`,
		`a[href*="product"]`, `a[href*="/p/"]`,
	},
	PriceSelectors: []string{
		`[class*="price"]`, `[data-price]`,
		`.price`, `span[class*="Price"]`,
		`[class*="cost"]`, `[class*="amount"]`,
	},
}

// registry maps known store aliases to their strategies. Lookup is
// case-insensitive on the trimmed display name.
var registry = map[string]*Strategy{
	"home depot": homeDepotStrategy,
	"homedepot":  homeDepotStrategy,
	"best buy":   bestBuyStrategy,
	"bestbuy":    bestBuyStrategy,
}

// Resolve returns the scraping strategy for a store display name, falling
// back to the generic strategy for unknown stores.
func Resolve(storeName string) *Strategy {
	if st, ok := registry[strings.ToLower(strings.TrimSpace(storeName))]; ok {
		return st
	}
	return genericStrategy
}

// Generic returns the generic fallback strategy.
func Generic() *Strategy {
	return genericStrategy
}

// EffectiveMode returns the fetch mode for a store: the caller-requested
// mode when present, otherwise the strategy default.
func (st *Strategy) EffectiveMode(store StoreDescriptor) FetchMode {
	if mode := store.Mode(); mode != "" {
		return mode
	}
	return st.DefaultMode
}

// BuildSearchURL builds the search URL for a query. A descriptor template
// containing the {query} placeholder wins; otherwise the strategy's own
// format applies, with final fallback to base_url + "/search?q=".
func (st *Strategy) BuildSearchURL(baseURL, template, query string) string {
	escaped := url.QueryEscape(query)
	if strings.Contains(template, "{query}") {
		return strings.ReplaceAll(template, "{query}", escaped)
	}
	if st.SearchURLFormat != "" {
		return fmt.Sprintf(st.SearchURLFormat, escaped)
	}
	return baseURL + "/search?q=" + escaped
}
