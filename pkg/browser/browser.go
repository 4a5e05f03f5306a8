// Package browser drives a headless browser on behalf of the session probes.
package browser

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/session"
)

var (
	// ErrNavigationTimeout means the page never reached the readiness policy in time
	ErrNavigationTimeout = errors.New("navigation timed out")

	// ErrElementNotFound means a selector did not become visible in time
	ErrElementNotFound = errors.New("element not found")

	// ErrWaitTimeout means the page URL never matched the awaited pattern
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrBrowserUnavailable means the browser process or tab is gone
	ErrBrowserUnavailable = errors.New("browser unavailable")
)

// KeyEnter is the key name accepted by Driver.Press
const KeyEnter = "Enter"

// Driver is the set of page primitives the probes are written against
type Driver interface {
	// InstallSession clears the cookie jar and installs tokens
	InstallSession(ctx context.Context, tokens []session.Token) error
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Exists(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	Press(ctx context.Context, key string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error
}

// Session is a launched browser owned by one caller
type Session interface {
	Driver
	Close() error
}

// Launcher starts browser sessions
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// WithSession launches a browser, hands it to fn and always closes it,
// whether fn returns an error or panics.
func WithSession(ctx context.Context, launcher Launcher, fn func(Driver) error) error {
	s, err := launcher.Launch(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			logger.FromContext(ctx).Warn("Failed to close browser session", zap.Error(cerr))
		}
	}()

	return fn(s)
}

// IsInfrastructure reports whether err means the browser or the caller's
// context failed rather than the page misbehaving. Per-operation timeouts are
// reported through the sentinels above and never wrap context errors.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrBrowserUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
