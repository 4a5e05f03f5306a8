package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/session"
)

// ChromeLauncher starts one headless Chrome per Launch call
type ChromeLauncher struct {
	cfg *config.BrowserConfig
}

// NewChromeLauncher creates a launcher for cfg
func NewChromeLauncher(cfg *config.BrowserConfig) *ChromeLauncher {
	return &ChromeLauncher{cfg: cfg}
}

// Launch starts the browser process and opens a tab with network tracking enabled
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(l.cfg)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar.Debugf),
		chromedp.WithErrorf(logger.Sugar.Debugf),
	)

	s := &chromeSession{
		cfg:           l.cfg,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		inflight:      make(map[network.RequestID]struct{}),
	}
	chromedp.ListenTarget(browserCtx, s.trackNetwork)

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to start browser: %v", ErrBrowserUnavailable, err)
	}

	logger.FromContext(ctx).Debug("Browser session started", zap.Bool("headless", l.cfg.Headless))
	return s, nil
}

type chromeSession struct {
	cfg           *config.BrowserConfig
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	closed   bool
}

func (s *chromeSession) trackNetwork(ev interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		s.inflight[e.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(s.inflight, e.RequestID)
	case *network.EventLoadingFailed:
		delete(s.inflight, e.RequestID)
	}
}

func (s *chromeSession) inflightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

func (s *chromeSession) resetInflight() {
	s.mu.Lock()
	s.inflight = make(map[network.RequestID]struct{})
	s.mu.Unlock()
}

// run executes actions on the tab bounded by timeout and by the caller's ctx
func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(tctx, actions...)
}

// classify maps a chromedp error onto the package sentinels
func (s *chromeSession) classify(ctx context.Context, err error, onTimeout error, subject string) error {
	switch {
	case err == nil:
		return nil
	case s.browserCtx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", onTimeout, subject)
	default:
		return fmt.Errorf("%s: %v", subject, err)
	}
}

func (s *chromeSession) InstallSession(ctx context.Context, tokens []session.Token) error {
	actions := []chromedp.Action{network.ClearBrowserCookies()}
	for _, t := range tokens {
		actions = append(actions, network.SetCookie(t.Name, t.Value).
			WithDomain(t.Domain).
			WithPath(t.Path).
			WithSecure(t.Secure).
			WithHTTPOnly(t.HTTPOnly))
	}

	err := s.run(ctx, s.cfg.ActionTimeout(), actions...)
	return s.classify(ctx, err, ErrWaitTimeout, "install session cookies")
}

// Navigate loads url and waits until at most MaxInflight requests stay open
// for QuietWindow, or fails with ErrNavigationTimeout.
func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	s.resetInflight()
	err := s.run(ctx, s.cfg.NavigationTimeout(),
		chromedp.Navigate(url),
		s.waitNetworkQuiet(),
	)
	return s.classify(ctx, err, ErrNavigationTimeout, url)
}

func (s *chromeSession) waitNetworkQuiet() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		var quietSince time.Time
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				if s.inflightCount() > s.cfg.MaxInflight {
					quietSince = time.Time{}
					continue
				}
				if quietSince.IsZero() {
					quietSince = now
				}
				if now.Sub(quietSince) >= s.cfg.QuietWindow() {
					return nil
				}
			}
		}
	})
}

func (s *chromeSession) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, s.cfg.ActionTimeout(), chromedp.Location(&url))
	return url, s.classify(ctx, err, ErrWaitTimeout, "read location")
}

// Exists reports whether selector matches a rendered element
func (s *chromeSession) Exists(ctx context.Context, selector string) (bool, error) {
	var visible bool
	expr := fmt.Sprintf(`(function() {
		const el = document.querySelector(%q);
		if (!el) return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	})()`, selector)

	err := s.run(ctx, s.cfg.ActionTimeout(), chromedp.Evaluate(expr, &visible))
	return visible, s.classify(ctx, err, ErrElementNotFound, selector)
}

func (s *chromeSession) Click(ctx context.Context, selector string) error {
	err := s.run(ctx, s.cfg.ActionTimeout(), chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
	return s.classify(ctx, err, ErrElementNotFound, selector)
}

func (s *chromeSession) Type(ctx context.Context, selector, text string) error {
	err := s.run(ctx, s.cfg.ActionTimeout(), chromedp.SendKeys(selector, text, chromedp.ByQuery, chromedp.NodeVisible))
	return s.classify(ctx, err, ErrElementNotFound, selector)
}

func (s *chromeSession) Press(ctx context.Context, key string) error {
	if key == KeyEnter {
		key = kb.Enter
	}
	err := s.run(ctx, s.cfg.ActionTimeout(), chromedp.KeyEvent(key))
	return s.classify(ctx, err, ErrWaitTimeout, "key press")
}

func (s *chromeSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	err := s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	return s.classify(ctx, err, ErrElementNotFound, selector)
}

// WaitForURL polls the tab location every PollInterval until it matches pattern
func (s *chromeSession) WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error {
	err := s.run(ctx, timeout, chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(s.cfg.PollInterval())
		defer ticker.Stop()

		for {
			var url string
			if err := chromedp.Location(&url).Do(ctx); err == nil && pattern.MatchString(url) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}))
	return s.classify(ctx, err, ErrWaitTimeout, pattern.String())
}

// Close kills the tab and the browser process; it is safe to call twice
func (s *chromeSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.browserCancel()
	s.allocCancel()
	return nil
}
