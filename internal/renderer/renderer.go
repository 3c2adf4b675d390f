// Package renderer provides the page-renderer capability: turning a URL into
// fully rendered markup via a headless browser. Each scraping task opens its
// own session; sessions are never shared across tasks.
package renderer

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the browser capability is missing in the
// runtime (no browser binary, launch failure). Callers may fall back to a
// static fetch when the task allows it.
var ErrUnavailable = errors.New("browser renderer unavailable")

// RenderOptions tunes how a page is settled before capture.
type RenderOptions struct {
	// SettleSelector, when set, is waited for before capturing markup.
	// Empty means wait for the DOM to go stable instead.
	SettleSelector string
	// ScrollToLoad scrolls partway down the page to trigger lazy content.
	ScrollToLoad bool
}

// PageSession is one isolated browser page. Safe to use from a single task;
// distinct sessions never interfere with each other.
type PageSession interface {
	// Render navigates to url, waits for the settle condition, and returns
	// the fully rendered markup.
	Render(ctx context.Context, url string, opts RenderOptions) (string, error)
	// Close releases the page.
	Close() error
}

// PageRenderer opens independent page sessions. Implementations must be safe
// for concurrent Open calls from multiple tasks.
type PageRenderer interface {
	Open() (PageSession, error)
	Close() error
}
