package scraper

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"sjsage522/storefinder/helpers"
	apperr "sjsage522/storefinder/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoProducts signals that no candidate container yielded a titled product.
var ErrNoProducts = errors.New("no products found")

const (
	// maxCandidates caps how many matched containers are inspected;
	// deeper results are assumed lower-relevance or noise.
	maxCandidates = 3
	// fallbackContainerCap caps the broad [class*="product"] fallback query.
	fallbackContainerCap = 5
	// titleMaxLen caps extracted product titles.
	titleMaxLen = 150
)

// Extract runs the ordered-selector cascade over rendered markup and returns
// the first successfully extracted product. Every level is first-match-wins:
// the first container selector with hits, the first candidate with a title,
// the first sub-selector with usable text. A candidate without any
// extractable title is rejected outright; a missing price is not.
func (st *Strategy) Extract(markup io.Reader, searchURL string) (*Product, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, apperr.NewParsing(st.Name, "failed to parse markup", err)
	}

	var product *Product
	st.findContainers(doc).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}
		if p := st.extractProduct(s, searchURL); p != nil {
			product = p
			return false
		}
		return true
	})

	if product == nil {
		return nil, ErrNoProducts
	}
	return product, nil
}

// findContainers tries the strategy's container selectors in order; the
// first selector with at least one hit wins. When none match, a broad
// "class contains product" query is used, capped to the first few matches.
func (st *Strategy) findContainers(doc *goquery.Document) *goquery.Selection {
	for _, sel := range st.ContainerSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}

	found := doc.Find(`[class*="product"]`)
	if found.Length() > fallbackContainerCap {
		found = found.Slice(0, fallbackContainerCap)
	}
	return found
}

// extractProduct derives a Product from one candidate container, or nil when
// the candidate has no title.
func (st *Strategy) extractProduct(s *goquery.Selection, searchURL string) *Product {
	title := firstText(s, st.TitleSelectors)
	if title == "" {
		return nil
	}
	title = helpers.Truncate(title, titleMaxLen)

	price := PriceNotAvailable
	for _, sel := range st.PriceSelectors {
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			if p := NormalizePrice(m.Text()); p != PriceNotAvailable {
				price = p
				return false
			}
			return true
		})
		if price != PriceNotAvailable {
			break
		}
	}

	productURL := searchURL
	if st.URLHandler != nil {
		productURL = st.URLHandler(s, searchURL)
	} else if href, ok := s.Find("a[href]").First().Attr("href"); ok {
		productURL = ResolveHref(strings.TrimSpace(href), searchURL)
	}

	var notes string
	if st.NotesHandler != nil {
		notes = st.NotesHandler(s)
	}

	return &Product{
		Name:  title,
		Price: price,
		URL:   productURL,
		Notes: notes,
	}
}

// firstText returns the first non-empty trimmed text matched by the ordered
// selector list, with internal whitespace collapsed.
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		text := strings.Join(strings.Fields(s.Find(sel).First().Text()), " ")
		if text != "" {
			return text
		}
	}
	return ""
}

// ResolveHref turns an anchor href into a canonical product URL: absolute
// hrefs pass through, root-relative ones resolve against the scheme and host
// of the search URL, anything else falls back to the search URL itself.
func ResolveHref(href, searchURL string) string {
	switch {
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		parsed, err := url.Parse(searchURL)
		if err != nil {
			return searchURL
		}
		return parsed.Scheme + "://" + parsed.Host + href
	default:
		return searchURL
	}
}
