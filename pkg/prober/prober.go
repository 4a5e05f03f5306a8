// Package prober decides whether a stored streaming credential is usable by
// driving a real browser session against the target site.
package prober

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/session"
)

// ErrButtonNotFound is logged when the lock page offers neither wizard entry point
var ErrButtonNotFound = errors.New("profile lock button not found")

// Reason explains a failed probe in logs; callers only see Live()
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonFormat     Reason = "format"
	ReasonNavigation Reason = "navigation"
	ReasonRedirected Reason = "redirected"
	ReasonPassword   Reason = "password"
)

// Target is the credential under test
type Target struct {
	Identifier string
	Password   string
	Session    any
}

// Verdict is the outcome of a probe
type Verdict struct {
	SessionAlive    bool
	PasswordChecked bool
	PasswordOK      bool
	Reason          Reason
	FinalURL        string
}

// Live reports whether the credential passed every check that ran
func (v Verdict) Live() bool {
	return v.SessionAlive && (!v.PasswordChecked || v.PasswordOK)
}

// Hooks lets callers observe probe progress
type Hooks struct {
	BeforePasswordCheck func()
}

// Options holds the site layout and the timings of both checks
type Options struct {
	CookieDomain string
	PlanURL      string
	PlanPath     string
	DeadPaths    []string
	LockURL      string
	Success      *regexp.Regexp

	CreateSelector  string
	EditSelector    string
	ConfirmSelector string
	InputSelector   string

	ButtonGrace  time.Duration
	FirstRace    time.Duration
	InputRace    time.Duration
	ShortRecheck time.Duration
	FinalRecheck time.Duration
	FinalWait    time.Duration
	Grace        time.Duration
}

// OptionsFromConfig builds probe options from the target and warranty sections
func OptionsFromConfig(tc *config.TargetConfig, wc *config.WarrantyConfig) (Options, error) {
	success, err := regexp.Compile(tc.SuccessPattern)
	if err != nil {
		return Options{}, fmt.Errorf("%w: success_pattern: %v", config.ErrInvalidValue, err)
	}

	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return Options{
		CookieDomain:    tc.CookieDomain,
		PlanURL:         tc.PlanURL(),
		PlanPath:        tc.PlanPath,
		DeadPaths:       tc.DeadPaths,
		LockURL:         tc.LockURL(),
		Success:         success,
		CreateSelector:  tc.CreateLockSelector,
		EditSelector:    tc.EditLockSelector,
		ConfirmSelector: tc.ConfirmSelector,
		InputSelector:   tc.PasswordInputSelector,
		ButtonGrace:     ms(wc.ButtonGraceMS),
		FirstRace:       ms(wc.FirstRaceMS),
		InputRace:       ms(wc.InputRaceMS),
		ShortRecheck:    ms(wc.ShortRecheckMS),
		FinalRecheck:    ms(wc.FinalRecheckMS),
		FinalWait:       ms(wc.FinalWaitMS),
		Grace:           ms(wc.GraceMS),
	}, nil
}

// Prober runs session checks on a caller-owned browser
type Prober struct {
	opts Options
}

// New creates a prober
func New(opts Options) *Prober {
	return &Prober{opts: opts}
}

// Probe runs the session check and, when it passes and a password is known,
// the password check. Page failures yield a non-live verdict; an error is
// returned only when the browser or ctx itself failed.
func (p *Prober) Probe(ctx context.Context, d browser.Driver, t Target, hooks Hooks) (Verdict, error) {
	v, err := p.CheckSession(ctx, d, t.Session)
	if err != nil || !v.SessionAlive {
		return v, err
	}
	if t.Password == "" {
		return v, nil
	}

	if hooks.BeforePasswordCheck != nil {
		hooks.BeforePasswordCheck()
	}

	ok, err := p.CheckPassword(ctx, d, t.Password)
	if err != nil {
		return v, err
	}
	v.PasswordChecked = true
	v.PasswordOK = ok
	if !ok {
		v.Reason = ReasonPassword
	}
	return v, nil
}

// CheckSession installs the stored cookies and opens the plan page. The
// session is alive only if the site did not redirect away from it.
func (p *Prober) CheckSession(ctx context.Context, d browser.Driver, raw any) (Verdict, error) {
	log := logger.FromContext(ctx)

	tokens, err := session.Parse(raw, p.opts.CookieDomain)
	if err != nil {
		log.Info("Session state unusable", zap.String("reason", string(ReasonFormat)), zap.Error(err))
		return Verdict{Reason: ReasonFormat}, nil
	}

	if err := d.InstallSession(ctx, tokens); err != nil {
		if browser.IsInfrastructure(err) {
			return Verdict{}, err
		}
		log.Info("Failed to install session cookies", zap.String("reason", string(ReasonNavigation)), zap.Error(err))
		return Verdict{Reason: ReasonNavigation}, nil
	}

	if err := d.Navigate(ctx, p.opts.PlanURL); err != nil {
		if browser.IsInfrastructure(err) {
			return Verdict{}, err
		}
		log.Info("Plan page did not load", zap.String("reason", string(ReasonNavigation)), zap.Error(err))
		return Verdict{Reason: ReasonNavigation}, nil
	}

	landed, err := d.CurrentURL(ctx)
	if err != nil {
		if browser.IsInfrastructure(err) {
			return Verdict{}, err
		}
		return Verdict{Reason: ReasonNavigation}, nil
	}

	if !p.onPlanPage(landed) {
		log.Info("Session redirected away from plan page",
			zap.String("reason", string(ReasonRedirected)),
			zap.String("url", landed))
		return Verdict{Reason: ReasonRedirected, FinalURL: landed}, nil
	}

	log.Debug("Session alive", zap.String("url", landed))
	return Verdict{SessionAlive: true, FinalURL: landed}, nil
}

// onPlanPage reports whether the browser landed on the plan page itself.
// Only the path counts: login redirects carry the plan path in their query.
func (p *Prober) onPlanPage(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(strings.TrimSuffix(u.Path, "/"))
	for _, dead := range p.opts.DeadPaths {
		if underPath(path, strings.ToLower(dead)) {
			return false
		}
	}
	return underPath(path, strings.ToLower(p.opts.PlanPath))
}

// underPath reports whether path is prefix or one of its sub-paths
func underPath(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	return prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+"/"))
}
