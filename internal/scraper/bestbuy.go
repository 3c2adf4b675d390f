package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bestBuyStrategy scrapes bestbuy.com search results. Best Buy renders its
// result list with JavaScript, so the default mode is rendered.
var bestBuyStrategy = &Strategy{
	Name:        "Best Buy",
	DefaultMode: FetchModeRendered,
	ContainerSelectors: []string{
		`.sku-item`,
		`[class*="sku-item"]`,
		`.list-item`,
		`[data-sku-id]`,
		`.product-list-item`,
	},
	TitleSelectors: []string{
		`.sku-title a`,
		`.sku-header a`,
		`h4.sku-title`,
		`[class*="sku-title"]`,
		`h4 a`,
	},
	PriceSelectors: []string{
		`[data-testid="customer-price"] span`,
		`.priceView-hero-price span`,
		`.priceView-customer-price span`,
		`[class*="price"] span`,
		`.sr-only`,
	},
	SearchURLFormat: "https://www.bestbuy.com/site/searchpage.jsp?st=%s",
	URLHandler:      bestBuyProductURL,
	NotesHandler:    bestBuyNotes,
	SettleSelector:  `.sku-item, .list-item, [class*="product"]`,
	ScrollToLoad:    true,
}

func bestBuyProductURL(s *goquery.Selection, searchURL string) string {
	href, ok := s.Find(`a.sku-title, a[href*="/site/"]`).First().Attr("href")
	if !ok {
		return searchURL
	}
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(href, "/"):
		return "https://www.bestbuy.com" + href
	case strings.HasPrefix(href, "http"):
		return href
	}
	return searchURL
}

// bestBuyNotes collects the SKU identifier and rating when present.
func bestBuyNotes(s *goquery.Selection) string {
	var notes []string

	sku, ok := s.Attr("data-sku-id")
	if !ok || sku == "" {
		sku = strings.TrimSpace(s.Find(`[class*="sku-value"]`).First().Text())
	}
	if sku != "" {
		notes = append(notes, "SKU: "+sku)
	}

	if rating := strings.Join(strings.Fields(s.Find(`[class*="rating"]`).First().Text()), " "); rating != "" {
		notes = append(notes, "Rating: "+rating)
	}

	return strings.Join(notes, "; ")
}
