// Package mockstore generates deterministic fake store data. It backs the
// -mock CLI flag and the integration tests; the extraction cascade never
// consults it.
package mockstore

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"html/template"
	"strings"

	"sjsage522/storefinder/internal/scraper"
)

// seed derives a stable 32-bit value from a store name and query.
func seed(storeName, query string) uint32 {
	sum := md5.Sum([]byte(storeName + query))
	return binary.BigEndian.Uint32(sum[:4])
}

// Record produces a realistic-looking ResultRecord for a store and query.
// The price is derived from the (store, query) hash so repeated calls agree.
func Record(store scraper.StoreDescriptor, query string) scraper.ResultRecord {
	h := seed(store.Name, query)
	dollars := 20 + h%500
	cents := h % 100

	return scraper.ResultRecord{
		StoreID:     store.ID,
		StoreName:   store.Name,
		ItemName:    fmt.Sprintf("%s - %s Edition", titleCase(query), store.Name),
		Price:       fmt.Sprintf("$%d.%02d", dollars, cents),
		Unit:        "each",
		ProductURL:  fmt.Sprintf("https://www.example.com/product/%d", h),
		Notes:       "Mock data - actual scraping not available",
		CollectedAt: scraper.CollectedNow(),
	}
}

var pageTemplate = template.Must(template.New("search").Parse(`<!DOCTYPE html>
<html>
<head><title>Search results for {{.Query}}</title></head>
<body>
  <div class="results">
  {{range .Products}}
    <div class="product-card">
      <h3 class="product-title">{{.Name}}</h3>
      <span class="price">{{.Price}}</span>
      <a href="{{.Href}}">View product</a>
    </div>
  {{end}}
  </div>
</body>
</html>
`))

type pageProduct struct {
	Name  string
	Price string
	Href  string
}

// SearchPage renders a small search-results page for a query, shaped like
// the generic product-card pattern so the extraction cascade can parse it.
func SearchPage(storeName, query string, count int) string {
	h := seed(storeName, query)

	products := make([]pageProduct, 0, count)
	for i := 0; i < count; i++ {
		dollars := 20 + (h+uint32(i)*37)%500
		cents := (h + uint32(i)*13) % 100
		products = append(products, pageProduct{
			Name:  fmt.Sprintf("%s Model %d", titleCase(query), i+1),
			Price: fmt.Sprintf("$%d.%02d", dollars, cents),
			Href:  fmt.Sprintf("/product/%d", h+uint32(i)),
		})
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, map[string]interface{}{
		"Query":    query,
		"Products": products,
	}); err != nil {
		return "<html><body></body></html>"
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
