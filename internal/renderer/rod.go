package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sjsage522/storefinder/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodRenderer implements PageRenderer on top of a shared headless browser.
// The browser launches lazily on the first Open; each Open creates a fresh
// page so tasks stay isolated from each other.
type RodRenderer struct {
	mu        sync.Mutex
	browser   *rod.Browser
	bin       string
	launchErr error
	log       *logger.Logger
}

// NewRodRenderer creates a renderer. bin optionally points at a browser
// binary; empty lets the launcher find or download one.
func NewRodRenderer(bin string) *RodRenderer {
	return &RodRenderer{
		bin: bin,
		log: logger.ForRenderer(),
	}
}

// Open launches the browser if needed and returns a fresh page session.
// A launch failure is sticky: later calls fail fast with ErrUnavailable.
func (r *RodRenderer) Open() (PageSession, error) {
	browser, err := r.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create page: %v", ErrUnavailable, err)
	}

	// Stealth must be injected before navigation to take effect.
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		r.log.Warn().Err(err).Msg("Stealth injection failed, proceeding without stealth")
	}

	return &rodSession{page: page}, nil
}

func (r *RodRenderer) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.launchErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, r.launchErr)
	}
	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New().Headless(true).NoSandbox(true)
	if r.bin != "" {
		l = l.Bin(r.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		r.launchErr = err
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		r.launchErr = err
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	r.log.Debug().Str("control_url", controlURL).Msg("Browser launched")
	r.browser = browser
	return browser, nil
}

// Close kills the shared browser process.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

type rodSession struct {
	page *rod.Page
}

// Render navigates and waits for the page to settle before capturing HTML.
// The context bounds every browser call, including navigation.
func (s *rodSession) Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	p := s.page.Context(ctx)

	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	if opts.SettleSelector != "" {
		// Best effort: proceed with whatever rendered if the selector
		// never shows up within its own budget.
		if _, err := p.Timeout(10 * time.Second).Element(opts.SettleSelector); err != nil {
			logger.ForRenderer().Debug().Str("selector", opts.SettleSelector).Err(err).
				Msg("Settle selector not found, proceeding with current DOM")
		}
	} else if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		logger.ForRenderer().Debug().Err(err).Msg("DOM did not stabilize, proceeding")
	}

	if opts.ScrollToLoad {
		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight / 3)`); err == nil {
			time.Sleep(500 * time.Millisecond)
		}
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to capture markup: %w", err)
	}
	return html, nil
}

func (s *rodSession) Close() error {
	return s.page.Close()
}
