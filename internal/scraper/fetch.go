package scraper

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"sjsage522/storefinder/helpers"
	"sjsage522/storefinder/internal/renderer"
	"sjsage522/storefinder/logger"
	apperr "sjsage522/storefinder/pkg/errors"
	"sjsage522/storefinder/services/cache"
)

// Fetcher obtains markup for a search URL, either with a direct HTTP GET or
// through the page renderer. Rate-limited hosts are remembered in the block
// cache so later fetches short-circuit for the cool-down window.
type Fetcher struct {
	Renderer renderer.PageRenderer // nil when rendering is disabled
	Cache    cache.CacheService
	BlockTTL time.Duration
}

// Fetch returns the markup for pageURL in the given mode. allowFallback
// permits a static retry when the renderer capability is unavailable; it is
// set when the mode came from the strategy default rather than the caller.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, mode FetchMode, st *Strategy, allowFallback bool) (io.Reader, error) {
	if mode == FetchModeRendered {
		return f.fetchRendered(ctx, pageURL, st, allowFallback)
	}
	return f.fetchStatic(ctx, pageURL)
}

func (f *Fetcher) fetchStatic(ctx context.Context, pageURL string) (io.Reader, error) {
	host := hostOf(pageURL)
	if f.Cache != nil && host != "" {
		if _, err := f.Cache.Get(blockKey(host)); err == nil {
			return nil, apperr.NewRateLimit(host, "")
		}
	}

	body, err := helpers.FetchPage(ctx, pageURL)
	if err != nil {
		if apperr.IsType(err, apperr.ErrorTypeRateLimit) && f.Cache != nil && host != "" {
			if cerr := f.Cache.Set(blockKey(host), []byte("1"), f.BlockTTL); cerr != nil {
				logger.LogError("cache", cerr, "Failed to record rate-limit block for %s", host)
			}
		}
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) fetchRendered(ctx context.Context, pageURL string, st *Strategy, allowFallback bool) (io.Reader, error) {
	if f.Renderer == nil {
		if allowFallback {
			logger.Debug("Renderer disabled, falling back to static fetch for %s", pageURL)
			return f.fetchStatic(ctx, pageURL)
		}
		return nil, apperr.NewRenderer(st.Name, "renderer not configured", renderer.ErrUnavailable)
	}

	session, err := f.Renderer.Open()
	if err != nil {
		if errors.Is(err, renderer.ErrUnavailable) && allowFallback {
			logger.Warn("Renderer unavailable, falling back to static fetch for %s", pageURL)
			return f.fetchStatic(ctx, pageURL)
		}
		return nil, apperr.NewRenderer(st.Name, "failed to open renderer session", err)
	}
	defer session.Close()

	html, err := session.Render(ctx, pageURL, renderer.RenderOptions{
		SettleSelector: st.SettleSelector,
		ScrollToLoad:   st.ScrollToLoad,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperr.NewTimeout(st.Name, "rendered fetch timed out", err)
		}
		return nil, apperr.NewNetwork(st.Name, "rendered fetch failed", err)
	}

	return strings.NewReader(html), nil
}

func hostOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func blockKey(host string) string {
	return "block:" + host
}
