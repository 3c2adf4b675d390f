package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// homeDepotStrategy scrapes homedepot.com search results. The product pods
// are usually present in the raw markup, so static fetch is the default.
var homeDepotStrategy = &Strategy{
	Name:        "Home Depot",
	DefaultMode: FetchModeStatic,
	ContainerSelectors: []string{
		`[data-testid="product-pod"]`,
		`.product-pod`,
		`.browse-search__pod`,
		`[class*="product-pod"]`,
		`.plp-pod`,
	},
	TitleSelectors: []string{
		`[data-testid="product-header"]`,
		`.product-header`,
		`[class*="pod-title"]`,
		`h3`, `h2`,
		`a[href*="/p/"]`,
	},
	PriceSelectors: []string{
		`[data-testid="product-pod-price"]`,
		`.price-format__main-price`,
		`[class*="price"]`,
		`span[class*="Price"]`,
	},
	SearchURLFormat: "https://www.homedepot.com/s/%s",
	URLHandler:      homeDepotProductURL,
	NotesHandler:    homeDepotNotes,
	SettleSelector:  `[data-testid="product-pod"]`,
}

func homeDepotProductURL(s *goquery.Selection, searchURL string) string {
	href, ok := s.Find(`a[href*="/p/"]`).First().Attr("href")
	if !ok {
		return searchURL
	}
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(href, "/"):
		return "https://www.homedepot.com" + href
	case strings.HasPrefix(href, "http"):
		return href
	}
	return searchURL
}

// homeDepotNotes records the model number when present.
func homeDepotNotes(s *goquery.Selection) string {
	model := strings.Join(strings.Fields(s.Find(`[class*="model"]`).First().Text()), " ")
	if model == "" {
		return ""
	}
	return "Model: " + model
}
