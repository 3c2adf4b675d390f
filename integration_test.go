package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sjsage522/storefinder/helpers"
	"sjsage522/storefinder/internal/mockstore"
	"sjsage522/storefinder/internal/request"
	"sjsage522/storefinder/internal/scraper"
	"sjsage522/storefinder/services/dispatcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeServer serves a generic product-card search page for one fake store.
func storeServer(t *testing.T, storeName string, productCount int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		w.Write([]byte(mockstore.SearchPage(storeName, query, productCount)))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEndToEndScrape(t *testing.T) {
	helpers.Configure(5*time.Second, 1000, 1000)

	hardware := storeServer(t, "Corner Hardware", 3)
	empty := storeServer(t, "Empty Store", 0)

	input := `{
		"stores": [
			{"id": "corner-hw", "name": "Corner Hardware", "base_url": "` + hardware.URL + `", "source": "static"},
			{"id": "empty", "name": "Empty Store", "base_url": "` + empty.URL + `", "source": "static"}
		],
		"query": "power drill"
	}`

	req, err := request.Parse([]byte(input))
	require.NoError(t, err)

	d := dispatcher.New(scraper.NewTask(&scraper.Fetcher{}), 3, 10*time.Second)
	results, errs := d.Dispatch(context.Background(), req.Stores, req.Query)

	require.Len(t, results, 2)
	assert.Empty(t, errs)

	// First store extracts a real product
	first := results[0]
	assert.Equal(t, "corner-hw", first.StoreID)
	assert.Equal(t, "Power Drill Model 1", first.ItemName)
	assert.Regexp(t, `^\$\d+\.\d{2}$`, first.Price)
	assert.Equal(t, "each", first.Unit)
	assert.Empty(t, first.Notes)

	// Second store has no products and yields a placeholder
	second := results[1]
	assert.Equal(t, "empty", second.StoreID)
	assert.Equal(t, "power drill", second.ItemName)
	assert.Equal(t, scraper.PriceNotAvailable, second.Price)
	assert.Equal(t, "No products found", second.Notes)
}

func TestEndToEndTimeout(t *testing.T) {
	helpers.Configure(5*time.Second, 1000, 1000)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer slow.Close()

	stores := []scraper.StoreDescriptor{
		{ID: "slow", Name: "Slow Store", BaseURL: slow.URL, Source: "static"},
	}

	d := dispatcher.New(scraper.NewTask(&scraper.Fetcher{}), 3, 100*time.Millisecond)
	results, errs := d.Dispatch(context.Background(), stores, "drill")

	require.Len(t, results, 1)
	assert.Empty(t, errs)
	assert.Equal(t, scraper.PriceNotAvailable, results[0].Price)
	// Either the dispatcher abandons the task or the HTTP layer reports the
	// deadline first; both surface as a timeout record.
	assert.Contains(t, []string{"Scraping timed out", "Request timed out"}, results[0].Notes)
}

func TestEndToEndMockMode(t *testing.T) {
	input := `{
		"stores": [
			{"id": "hd", "name": "Home Depot", "base_url": "https://www.homedepot.com"},
			{"id": "bb", "name": "Best Buy", "base_url": "https://www.bestbuy.com"}
		],
		"query": "power drill"
	}`

	req, err := request.Parse([]byte(input))
	require.NoError(t, err)

	var results []scraper.ResultRecord
	for _, store := range req.Stores {
		results = append(results, mockstore.Record(store, req.Query))
	}

	require.Len(t, results, 2)
	assert.Equal(t, "Power Drill - Home Depot Edition", results[0].ItemName)
	assert.Equal(t, "Power Drill - Best Buy Edition", results[1].ItemName)
}

func TestValidationMessageUnwrapsScrapeError(t *testing.T) {
	_, err := request.Parse([]byte(`{"query": "drill"}`))
	require.Error(t, err)
	assert.Equal(t, "Missing 'stores' field", validationMessage(err))
}
