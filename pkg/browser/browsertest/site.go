// Package browsertest provides a deterministic in-memory browser for tests.
//
// A Site maps session cookie values to Scripts. Each Script describes the
// page the browser lands on after a navigation, a click, or a password
// submission, and optionally a page it moves to by itself some time later.
// Waits wake up on every page change and otherwise block until their
// timeout, so races resolve the same way on every run.
package browsertest

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/session"
)

// Page is what the browser shows: its URL and the visible selectors
type Page struct {
	URL     string
	Visible []string
}

func (p Page) has(selector string) bool {
	for _, s := range p.Visible {
		if s == selector {
			return true
		}
	}
	return false
}

// Submit is the After trigger of a password submission
const Submit = "submit"

// Later is a page change that happens by itself Delay after its trigger
type Later struct {
	Delay time.Duration
	Page  Page
}

// Script scripts one account's behaviour on the site
type Script struct {
	// Routes maps a navigated URL to the resulting page
	Routes map[string]Page
	// Clicks maps a clicked selector to the resulting page
	Clicks map[string]Page
	// Password, when typed and submitted with Enter, leads to Submitted
	Password  string
	Submitted Page
	// NavigateErr forces Navigate to fail for a URL
	NavigateErr map[string]error
	// After maps a trigger (a navigated URL, a clicked selector or Submit)
	// to the page shown once its delay passed, unless another action
	// changed the page first
	After map[string]Later
}

// Site is a fake browser launcher shared by a test
type Site struct {
	// CookieName selects which cookie identifies the script; defaults to NetflixId
	CookieName string
	// Fallback is used when no script matches; navigations land on FallbackURL
	FallbackURL string
	LaunchErr   error

	mu        sync.Mutex
	scripts   map[string]*Script
	launches  int
	closes    int
	visits    []string
	typed     []string
	installed [][]session.Token
	crashOn   map[string]bool
}

// NewSite creates an empty site whose unknown sessions are sent to the login page
func NewSite() *Site {
	return &Site{
		CookieName:  "NetflixId",
		FallbackURL: "https://www.netflix.com/login",
		scripts:     make(map[string]*Script),
		crashOn:     make(map[string]bool),
	}
}

// Account registers script for sessions whose identifying cookie equals value
func (s *Site) Account(value string, script *Script) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[value] = script
	return s
}

// CrashOn makes the browser die when value's session is installed
func (s *Site) CrashOn(value string) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crashOn[value] = true
	return s
}

// Launch implements browser.Launcher
func (s *Site) Launch(ctx context.Context) (browser.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LaunchErr != nil {
		return nil, s.LaunchErr
	}
	s.launches++
	return &tab{site: s}, nil
}

// Launches returns how many browsers were started
func (s *Site) Launches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launches
}

// Closes returns how many browsers were closed
func (s *Site) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Visits returns every URL navigated to, in order
func (s *Site) Visits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visits...)
}

// Typed returns every text typed into an input, in order
func (s *Site) Typed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.typed...)
}

// Installs returns how many times a cookie set was installed
func (s *Site) Installs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.installed)
}

type tab struct {
	site   *Site
	mu     sync.Mutex
	script *Script
	page   Page
	input  string
	dead   bool
	closed bool

	// gen counts page changes; a pending Later only fires if it is unchanged
	gen     int
	changed chan struct{}
	timers  []*time.Timer
}

func (t *tab) current() (Page, <-chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.changed == nil {
		t.changed = make(chan struct{})
	}
	return t.page, t.changed
}

// show switches to p after trigger and schedules the trigger's Later; callers hold mu
func (t *tab) show(p Page, trigger string) {
	t.setLocked(p)
	if t.script == nil {
		return
	}
	later, ok := t.script.After[trigger]
	if !ok {
		return
	}
	gen := t.gen
	t.timers = append(t.timers, time.AfterFunc(later.Delay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen == gen && !t.closed {
			t.setLocked(later.Page)
		}
	}))
}

func (t *tab) setLocked(p Page) {
	t.page = p
	t.gen++
	if t.changed != nil {
		close(t.changed)
	}
	t.changed = make(chan struct{})
}

func (t *tab) alive() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dead || t.closed {
		return fmt.Errorf("%w: tab closed", browser.ErrBrowserUnavailable)
	}
	return nil
}

func (t *tab) InstallSession(ctx context.Context, tokens []session.Token) error {
	if err := t.alive(); err != nil {
		return err
	}

	t.site.mu.Lock()
	t.site.installed = append(t.site.installed, tokens)
	value, _ := session.Lookup(tokens, t.site.CookieName)
	script := t.site.scripts[value]
	crash := t.site.crashOn[value]
	t.site.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.script = script
	t.setLocked(Page{URL: "about:blank"})
	t.input = ""
	if crash {
		t.dead = true
		return fmt.Errorf("%w: target crashed", browser.ErrBrowserUnavailable)
	}
	return nil
}

func (t *tab) Navigate(ctx context.Context, url string) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.site.mu.Lock()
	t.site.visits = append(t.site.visits, url)
	fallback := t.site.FallbackURL
	t.site.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.script == nil {
		t.setLocked(Page{URL: fallback})
		return nil
	}
	if err := t.script.NavigateErr[url]; err != nil {
		return err
	}
	if p, ok := t.script.Routes[url]; ok {
		t.show(p, url)
	} else {
		t.setLocked(Page{URL: fallback})
	}
	return nil
}

func (t *tab) CurrentURL(ctx context.Context) (string, error) {
	if err := t.alive(); err != nil {
		return "", err
	}
	p, _ := t.current()
	return p.URL, nil
}

func (t *tab) Exists(ctx context.Context, selector string) (bool, error) {
	if err := t.alive(); err != nil {
		return false, err
	}
	p, _ := t.current()
	return p.has(selector), nil
}

func (t *tab) Click(ctx context.Context, selector string) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.page.has(selector) {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	if t.script != nil {
		if next, ok := t.script.Clicks[selector]; ok {
			t.show(next, selector)
		}
	}
	return nil
}

func (t *tab) Type(ctx context.Context, selector, text string) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.page.has(selector) {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	t.input += text

	t.site.mu.Lock()
	t.site.typed = append(t.site.typed, text)
	t.site.mu.Unlock()
	return nil
}

func (t *tab) Press(ctx context.Context, key string) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if key == browser.KeyEnter && t.script != nil && t.script.Password != "" && t.input == t.script.Password {
		t.show(t.script.Submitted, Submit)
	}
	return nil
}

// WaitForSelector returns once the selector is visible or fails at the timeout
func (t *tab) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return t.waitFor(ctx, timeout, func(p Page) bool { return p.has(selector) }, browser.ErrElementNotFound, selector)
}

func (t *tab) WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error {
	return t.waitFor(ctx, timeout, func(p Page) bool { return pattern.MatchString(p.URL) }, browser.ErrWaitTimeout, pattern.String())
}

func (t *tab) waitFor(ctx context.Context, timeout time.Duration, ok func(Page) bool, timeoutErr error, subject string) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if err := t.alive(); err != nil {
			return err
		}
		p, changed := t.current()
		if ok(p) {
			return nil
		}

		select {
		case <-changed:
		case <-timer.C:
			return fmt.Errorf("%w: %s", timeoutErr, subject)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *tab) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	for _, timer := range t.timers {
		timer.Stop()
	}
	t.mu.Unlock()

	t.site.mu.Lock()
	t.site.closes++
	t.site.mu.Unlock()
	return nil
}
