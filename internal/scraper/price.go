package scraper

import (
	"regexp"
	"strings"
)

// pricePattern matches 1-3 leading digits, optional comma-grouped triples and
// an optional 2-digit decimal part, e.g. "1,299.00", "49.99", "20".
var pricePattern = regexp.MustCompile(`\$?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)

// NormalizePrice extracts and normalizes a price from raw text. The result is
// either "$<digits>.<2 digits>" (or "$<digits>") with thousands separators
// stripped, or PriceNotAvailable when no numeric pattern is found. Total over
// every input.
func NormalizePrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PriceNotAvailable
	}

	match := pricePattern.FindStringSubmatch(raw)
	if match == nil {
		return PriceNotAvailable
	}

	return "$" + strings.ReplaceAll(match[1], ",", "")
}
