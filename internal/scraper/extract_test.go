package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchURL = "https://shop.example.com/search?q=drill"

func TestExtractGenericProductCard(t *testing.T) {
	markup := `<html><body>
		<div class="product-card">
			<h3>Cordless Drill 20V</h3>
			<span class="price">$49.99</span>
			<a href="/product/123">View</a>
		</div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "Cordless Drill 20V", p.Name)
	assert.Equal(t, "$49.99", p.Price)
	assert.Equal(t, "https://shop.example.com/product/123", p.URL)
	assert.Empty(t, p.Notes)
}

func TestExtractRejectsTitlelessCandidate(t *testing.T) {
	// The first card has a price but no title, so it must be skipped
	// in favor of the second.
	markup := `<html><body>
		<div class="product-card"><span class="price">$5.00</span></div>
		<div class="product-card">
			<h3>Backup Widget</h3>
			<span class="price">$7.25</span>
		</div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "Backup Widget", p.Name)
	assert.Equal(t, "$7.25", p.Price)
}

func TestExtractMissingPriceIsNotFatal(t *testing.T) {
	markup := `<html><body>
		<div class="product-card"><h3>Mystery Gadget</h3></div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "Mystery Gadget", p.Name)
	assert.Equal(t, PriceNotAvailable, p.Price)
	// No anchor in the card, so the search URL stands in
	assert.Equal(t, searchURL, p.URL)
}

func TestExtractPriceCascadeSkipsUnparsableText(t *testing.T) {
	markup := `<html><body>
		<div class="product-card">
			<h3>Sale Item</h3>
			<span class="price-label">Sale!</span>
			<span class="price">$10.00</span>
		</div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "$10.00", p.Price)
}

func TestExtractFirstContainerSelectorWins(t *testing.T) {
	// Both a data-testid card and a .product-item are present; the
	// data-testid selector comes first in the cascade so its card wins.
	markup := `<html><body>
		<div class="product-item"><h3>Second Choice</h3></div>
		<div data-testid="product-card"><h3>First Choice</h3></div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "First Choice", p.Name)
}

func TestExtractCandidateCap(t *testing.T) {
	// Three leading titleless cards exhaust the candidate budget even
	// though a fourth, valid card follows.
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 3; i++ {
		b.WriteString(`<div class="product-card"><span class="price">$1.00</span></div>`)
	}
	b.WriteString(`<div class="product-card"><h3>Too Deep</h3></div>`)
	b.WriteString("</body></html>")

	_, err := Generic().Extract(strings.NewReader(b.String()), searchURL)
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestExtractFallbackContainerQuery(t *testing.T) {
	// No cascade selector matches, but a class containing "product" does.
	markup := `<html><body>
		<div class="productTile">
			<h2>Fallback Find</h2>
			<span class="cost">$33.00</span>
		</div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "Fallback Find", p.Name)
	assert.Equal(t, "$33.00", p.Price)
}

func TestExtractNoProducts(t *testing.T) {
	markup := `<html><body><p>Sorry, nothing matched your search.</p></body></html>`

	_, err := Generic().Extract(strings.NewReader(markup), searchURL)
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestExtractTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 400)
	markup := `<html><body>
		<div class="product-card"><h3>` + long + `</h3></div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Len(t, p.Name, 150)
}

func TestExtractCollapsesTitleWhitespace(t *testing.T) {
	markup := `<html><body>
		<div class="product-card"><h3>  Cordless
			Drill   20V </h3></div>
	</body></html>`

	p, err := Generic().Extract(strings.NewReader(markup), searchURL)
	require.NoError(t, err)
	assert.Equal(t, "Cordless Drill 20V", p.Name)
}

func TestExtractBestBuy(t *testing.T) {
	markup := `<html><body>
		<li class="sku-item" data-sku-id="6543210">
			<h4 class="sku-title"><a href="/site/oled-tv/6543210.p">55" OLED TV</a></h4>
			<div class="priceView-customer-price"><span>$1,299.99</span></div>
			<div class="c-ratings-reviews rating">4.8</div>
		</li>
	</body></html>`

	p, err := Resolve("Best Buy").Extract(strings.NewReader(markup), "https://www.bestbuy.com/site/searchpage.jsp?st=oled+tv")
	require.NoError(t, err)
	assert.Equal(t, `55" OLED TV`, p.Name)
	assert.Equal(t, "$1299.99", p.Price)
	assert.Equal(t, "https://www.bestbuy.com/site/oled-tv/6543210.p", p.URL)
	assert.Equal(t, "SKU: 6543210; Rating: 4.8", p.Notes)
}

func TestExtractHomeDepot(t *testing.T) {
	markup := `<html><body>
		<div data-testid="product-pod">
			<span data-testid="product-header">DEWALT 20V MAX Cordless Drill</span>
			<div data-testid="product-pod-price">$99.00</div>
			<a href="/p/DEWALT-20V/312525123">Shop</a>
			<span class="product-pod__model">Model# DCD771C2</span>
		</div>
	</body></html>`

	p, err := Resolve("Home Depot").Extract(strings.NewReader(markup), "https://www.homedepot.com/s/drill")
	require.NoError(t, err)
	assert.Equal(t, "DEWALT 20V MAX Cordless Drill", p.Name)
	assert.Equal(t, "$99.00", p.Price)
	assert.Equal(t, "https://www.homedepot.com/p/DEWALT-20V/312525123", p.URL)
	assert.Equal(t, "Model: Model# DCD771C2", p.Notes)
}

func TestResolveHref(t *testing.T) {
	assert.Equal(t, "https://other.example.com/p/1",
		ResolveHref("https://other.example.com/p/1", searchURL))
	assert.Equal(t, "https://shop.example.com/p/1",
		ResolveHref("/p/1", searchURL))
	assert.Equal(t, searchURL, ResolveHref("javascript:void(0)", searchURL))
	assert.Equal(t, searchURL, ResolveHref("", searchURL))
}
