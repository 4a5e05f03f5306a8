package prober

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

type passwordState int

const (
	stateOpenLockPage passwordState = iota
	stateStartPinFlow
	stateAwaitConfirm
	stateConfirm
	stateAwaitPasswordInput
	stateSubmitPassword
	stateAwaitSuccess
	stateGrace
	stateSucceeded
	stateFailed
)

var passwordStateNames = map[passwordState]string{
	stateOpenLockPage:       "open_lock_page",
	stateStartPinFlow:       "start_pin_flow",
	stateAwaitConfirm:       "await_confirm",
	stateConfirm:            "confirm",
	stateAwaitPasswordInput: "await_password_input",
	stateSubmitPassword:     "submit_password",
	stateAwaitSuccess:       "await_success",
	stateGrace:              "grace",
	stateSucceeded:          "succeeded",
	stateFailed:             "failed",
}

func (s passwordState) String() string {
	return passwordStateNames[s]
}

func (s passwordState) terminal() bool {
	return s == stateSucceeded || s == stateFailed
}

// passwordRun is one walk through the profile lock wizard
type passwordRun struct {
	opts     *Options
	d        browser.Driver
	password string
	failure  error
}

// CheckPassword proves the password by entering the profile lock wizard,
// which asks for it before showing the PIN entry page. Reaching the PIN
// entry URL at any point counts as success.
func (p *Prober) CheckPassword(ctx context.Context, d browser.Driver, password string) (bool, error) {
	log := logger.FromContext(ctx)
	run := &passwordRun{opts: &p.opts, d: d, password: password}

	state := stateOpenLockPage
	for !state.terminal() {
		next, err := run.step(ctx, state)
		if err != nil {
			return false, err
		}
		log.Debug("Password check transition",
			zap.Stringer("from", state),
			zap.Stringer("to", next))
		state = next
	}

	if state == stateFailed {
		log.Info("Password check failed", zap.String("reason", string(ReasonPassword)), zap.Error(run.failure))
		return false, nil
	}
	return true, nil
}

func (r *passwordRun) step(ctx context.Context, s passwordState) (passwordState, error) {
	switch s {
	case stateOpenLockPage:
		return r.openLockPage(ctx)
	case stateStartPinFlow:
		return r.startPinFlow(ctx)
	case stateAwaitConfirm:
		return r.race(ctx, r.opts.FirstRace, r.opts.ConfirmSelector, stateConfirm, r.opts.ShortRecheck)
	case stateConfirm:
		return r.click(ctx, r.opts.ConfirmSelector, stateAwaitPasswordInput)
	case stateAwaitPasswordInput:
		return r.race(ctx, r.opts.InputRace, r.opts.InputSelector, stateSubmitPassword, r.opts.FinalRecheck)
	case stateSubmitPassword:
		return r.submitPassword(ctx)
	case stateAwaitSuccess:
		return r.awaitSuccess(ctx, r.opts.FinalWait, stateGrace)
	case stateGrace:
		return r.awaitSuccess(ctx, r.opts.Grace, stateFailed)
	default:
		return stateFailed, fmt.Errorf("unexpected password check state %s", s)
	}
}

func (r *passwordRun) openLockPage(ctx context.Context) (passwordState, error) {
	if err := r.d.Navigate(ctx, r.opts.LockURL); err != nil {
		return r.fail(err)
	}

	url, err := r.d.CurrentURL(ctx)
	if err != nil {
		return r.fail(err)
	}
	if r.opts.Success.MatchString(url) {
		return stateSucceeded, nil
	}
	return stateStartPinFlow, nil
}

// startPinFlow clicks whichever of the create or edit buttons the page offers
func (r *passwordRun) startPinFlow(ctx context.Context) (passwordState, error) {
	for _, sel := range []string{r.opts.CreateSelector, r.opts.EditSelector} {
		ok, err := r.d.Exists(ctx, sel)
		if err != nil && browser.IsInfrastructure(err) {
			return stateFailed, err
		}
		if ok {
			return r.click(ctx, sel, stateAwaitConfirm)
		}
	}

	winner := browser.AwaitFirstOf(ctx, r.opts.ButtonGrace,
		browser.SelectorVisible(r.d, r.opts.CreateSelector, r.opts.ButtonGrace),
		browser.SelectorVisible(r.d, r.opts.EditSelector, r.opts.ButtonGrace),
	)
	if err := ctx.Err(); err != nil {
		return stateFailed, err
	}

	switch winner {
	case browser.WinnerA:
		return r.click(ctx, r.opts.CreateSelector, stateAwaitConfirm)
	case browser.WinnerB:
		return r.click(ctx, r.opts.EditSelector, stateAwaitConfirm)
	default:
		// the page may already have moved on by itself
		return r.recheck(ctx, r.opts.ShortRecheck, ErrButtonNotFound)
	}
}

// race waits for selector to appear or for the success URL, whichever comes first
func (r *passwordRun) race(ctx context.Context, timeout time.Duration, selector string, onSelector passwordState, recheck time.Duration) (passwordState, error) {
	winner := browser.AwaitFirstOf(ctx, timeout,
		browser.SelectorVisible(r.d, selector, timeout),
		browser.URLMatches(r.d, r.opts.Success, timeout),
	)
	if err := ctx.Err(); err != nil {
		return stateFailed, err
	}

	switch winner {
	case browser.WinnerA:
		return onSelector, nil
	case browser.WinnerB:
		return stateSucceeded, nil
	default:
		return r.recheck(ctx, recheck, fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector))
	}
}

func (r *passwordRun) click(ctx context.Context, selector string, next passwordState) (passwordState, error) {
	if err := r.d.Click(ctx, selector); err != nil {
		return r.fail(err)
	}
	return next, nil
}

func (r *passwordRun) submitPassword(ctx context.Context) (passwordState, error) {
	if err := r.d.Type(ctx, r.opts.InputSelector, r.password); err != nil {
		return r.fail(err)
	}
	if err := r.d.Press(ctx, browser.KeyEnter); err != nil {
		return r.fail(err)
	}
	return stateAwaitSuccess, nil
}

func (r *passwordRun) awaitSuccess(ctx context.Context, timeout time.Duration, onTimeout passwordState) (passwordState, error) {
	err := r.d.WaitForURL(ctx, r.opts.Success, timeout)
	switch {
	case err == nil:
		return stateSucceeded, nil
	case browser.IsInfrastructure(err):
		return stateFailed, err
	default:
		r.failure = err
		return onTimeout, nil
	}
}

// recheck gives the page one more chance to reach the success URL
func (r *passwordRun) recheck(ctx context.Context, timeout time.Duration, reason error) (passwordState, error) {
	err := r.d.WaitForURL(ctx, r.opts.Success, timeout)
	switch {
	case err == nil:
		return stateSucceeded, nil
	case browser.IsInfrastructure(err):
		return stateFailed, err
	default:
		r.failure = reason
		return stateFailed, nil
	}
}

// fail ends the walk; only infrastructure errors escape the prober
func (r *passwordRun) fail(err error) (passwordState, error) {
	if browser.IsInfrastructure(err) {
		return stateFailed, err
	}
	r.failure = err
	return stateFailed, nil
}
