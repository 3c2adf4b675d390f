package scraper

import (
	"context"
	"errors"

	"sjsage522/storefinder/helpers"
	"sjsage522/storefinder/logger"
	apperr "sjsage522/storefinder/pkg/errors"
)

// Task runs the per-store pipeline: resolve strategy, build the search URL,
// fetch, extract, normalize. Every classified failure becomes a placeholder
// record; ScrapeStore never returns an error.
type Task struct {
	fetcher *Fetcher
}

// NewTask creates a task runner over a fetcher.
func NewTask(fetcher *Fetcher) *Task {
	return &Task{fetcher: fetcher}
}

// ScrapeStore produces exactly one ResultRecord for a store.
func (t *Task) ScrapeStore(ctx context.Context, store StoreDescriptor, query string) ResultRecord {
	st := Resolve(store.Name)
	mode := st.EffectiveMode(store)
	searchURL := st.BuildSearchURL(store.BaseURL, store.SearchURLTemplate, query)

	log := logger.ForStore(store.Name)
	log.Debug().
		Str("strategy", st.Name).
		Str("mode", string(mode)).
		Str("url", searchURL).
		Msg("Scraping store")

	// A static fallback is only allowed when the caller left the fetch
	// mode to the strategy.
	allowFallback := store.Mode() == ""

	body, err := t.fetcher.Fetch(ctx, searchURL, mode, st, allowFallback)
	if err != nil {
		log.Warn().Err(err).Msg("Fetch failed")
		return NewPlaceholder(store, query, searchURL, failureNotes(err))
	}

	product, err := st.Extract(body, searchURL)
	if err != nil {
		log.Debug().Err(err).Msg("Extraction yielded no product")
		return NewPlaceholder(store, query, searchURL, failureNotes(err))
	}

	log.Debug().
		Str("item", product.Name).
		Str("price", product.Price).
		Msg("Extracted product")

	return ResultRecord{
		StoreID:     store.ID,
		StoreName:   store.Name,
		ItemName:    product.Name,
		Price:       product.Price,
		Unit:        "each",
		ProductURL:  product.URL,
		Notes:       product.Notes,
		CollectedAt: CollectedNow(),
	}
}

// failureNotes maps a classified failure to the explanatory notes carried by
// its placeholder record.
func failureNotes(err error) string {
	if errors.Is(err, ErrNoProducts) {
		return "No products found"
	}
	switch apperr.TypeOf(err) {
	case apperr.ErrorTypeTimeout:
		return "Request timed out"
	case apperr.ErrorTypeRateLimit:
		return "Rate limited"
	case apperr.ErrorTypeRenderer:
		return "Browser renderer not available"
	case apperr.ErrorTypeNetwork:
		return "Request failed: " + helpers.Truncate(err.Error(), 80)
	default:
		return "Scraping error: " + helpers.Truncate(err.Error(), 100)
	}
}
