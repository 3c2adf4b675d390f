// Package request implements the JSON framing consumed on stdin and produced
// on stdout, including input validation. Validation failures short-circuit
// before any dispatch happens.
package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"sjsage522/storefinder/internal/scraper"
	apperr "sjsage522/storefinder/pkg/errors"
)

// MaxStores bounds the store list of one request.
const MaxStores = 5

// Request is one validated scraping request.
type Request struct {
	Stores []scraper.StoreDescriptor
	Query  string
}

// Meta summarizes one processed request.
type Meta struct {
	Query           string `json:"query"`
	StoresProcessed int    `json:"stores_processed"`
	TotalResults    int    `json:"total_results"`
}

// Response is the JSON envelope written to stdout.
type Response struct {
	Results []scraper.ResultRecord `json:"results"`
	Errors  []string               `json:"errors"`
	Meta    Meta                   `json:"meta"`
}

// NewResponse returns an empty response envelope with non-nil slices so the
// JSON output always carries "results" and "errors" arrays.
func NewResponse() *Response {
	return &Response{
		Results: []scraper.ResultRecord{},
		Errors:  []string{},
	}
}

// Parse decodes and validates a request. All failures are validation errors
// whose messages are meant for the response's errors array verbatim.
func Parse(data []byte) (*Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if json.Valid(data) {
			return nil, apperr.NewValidation("Input must be a JSON object")
		}
		return nil, apperr.NewValidation(fmt.Sprintf("Invalid JSON: %v", err))
	}

	storesRaw, ok := raw["stores"]
	if !ok {
		return nil, apperr.NewValidation("Missing 'stores' field")
	}

	var storeItems []json.RawMessage
	if err := json.Unmarshal(storesRaw, &storeItems); err != nil {
		return nil, apperr.NewValidation("'stores' must be an array")
	}
	if len(storeItems) == 0 {
		return nil, apperr.NewValidation("'stores' array is empty")
	}
	if len(storeItems) > MaxStores {
		return nil, apperr.NewValidation(fmt.Sprintf("Maximum %d stores allowed", MaxStores))
	}

	queryRaw, ok := raw["query"]
	if !ok {
		return nil, apperr.NewValidation("Missing 'query' field")
	}
	var query string
	if err := json.Unmarshal(queryRaw, &query); err != nil || strings.TrimSpace(query) == "" {
		return nil, apperr.NewValidation("'query' must be a non-empty string")
	}

	stores := make([]scraper.StoreDescriptor, 0, len(storeItems))
	for i, item := range storeItems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, apperr.NewValidation(fmt.Sprintf("Store at index %d must be an object", i))
		}
		for _, field := range []string{"id", "name", "base_url"} {
			if _, ok := fields[field]; !ok {
				return nil, apperr.NewValidation(fmt.Sprintf("Store at index %d missing '%s'", i, field))
			}
		}

		var store scraper.StoreDescriptor
		if err := json.Unmarshal(item, &store); err != nil {
			return nil, apperr.NewValidation(fmt.Sprintf("Store at index %d must be an object", i))
		}
		stores = append(stores, store)
	}

	return &Request{
		Stores: stores,
		Query:  strings.TrimSpace(query),
	}, nil
}
