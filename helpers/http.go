package helpers

import (
	"bytes"
	"context"
	"errors"
	"io"
	mathrand "math/rand"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	apperr "sjsage522/storefinder/pkg/errors"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.bing.com/",
		"https://duckduckgo.com/",
	}

	// HTTP client with timeout
	client = &http.Client{
		Timeout: 15 * time.Second,
	}

	// Per-host token buckets, populated lazily
	limiterMu   sync.Mutex
	limiters    = map[string]*rate.Limiter{}
	limiterRate = rate.Limit(1)
	limiterBurst = 2
)

// Configure sets the HTTP client timeout and the per-host rate limit.
// Called once at process start; not safe to call concurrently with fetches.
func Configure(timeout time.Duration, perHost float64, burst int) {
	client = &http.Client{Timeout: timeout}
	limiterMu.Lock()
	defer limiterMu.Unlock()
	limiterRate = rate.Limit(perHost)
	limiterBurst = burst
	limiters = map[string]*rate.Limiter{}
}

func limiterFor(host string) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	l, ok := limiters[host]
	if !ok {
		l = rate.NewLimiter(limiterRate, limiterBurst)
		limiters[host] = l
	}
	return l
}

// FetchPage sends an HTTP GET request with browser-like headers, converts the
// response body to UTF-8 if needed, and returns it as an io.Reader. Failures
// come back as classified ScrapeErrors (timeout, rate_limit, network).
func FetchPage(ctx context.Context, pageURL string) (io.Reader, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, apperr.NewNetwork("", "invalid URL", err)
	}

	if err := limiterFor(parsed.Host).Wait(ctx); err != nil {
		return nil, apperr.NewTimeout("", "rate limiter wait aborted", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, apperr.NewNetwork("", "failed to create request", err)
	}

	// Set browser-like headers
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", referers[rnd.Intn(len(referers))])
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	// Send the request
	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.NewTimeout("", "request timed out", err)
		}
		return nil, apperr.NewNetwork("", "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, apperr.NewRateLimit("", resp.Header.Get("Retry-After"))
	}

	// Check for other error status codes
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewNetwork("", "unexpected status code: "+strconv.Itoa(resp.StatusCode), nil)
	}

	// Read the entire response body
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.NewTimeout("", "request timed out reading body", err)
		}
		return nil, apperr.NewNetwork("", "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	// Convert to UTF-8 if necessary
	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, apperr.NewParsing("", "failed to read converted UTF-8 body", err)
	}

	return &buf, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
