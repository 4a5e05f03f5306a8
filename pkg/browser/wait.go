package browser

import (
	"context"
	"regexp"
	"time"
)

// Condition is one awaitable page state; it returns nil once the state holds
type Condition func(ctx context.Context) error

// Winner identifies which condition of a race resolved first
type Winner int

const (
	WinnerNone Winner = iota
	WinnerA
	WinnerB
)

func (w Winner) String() string {
	switch w {
	case WinnerA:
		return "a"
	case WinnerB:
		return "b"
	default:
		return "none"
	}
}

// AwaitFirstOf runs a and b concurrently and reports the first one to
// succeed. A failing condition does not end the race; WinnerNone is returned
// once both failed or timeout elapsed. The loser is cancelled.
func AwaitFirstOf(ctx context.Context, timeout time.Duration, a, b Condition) Winner {
	raceCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		winner Winner
		err    error
	}
	results := make(chan result, 2)

	run := func(w Winner, cond Condition) {
		results <- result{winner: w, err: cond(raceCtx)}
	}
	go run(WinnerA, a)
	go run(WinnerB, b)

	for pending := 2; pending > 0; pending-- {
		select {
		case r := <-results:
			if r.err == nil {
				return r.winner
			}
		case <-raceCtx.Done():
			return WinnerNone
		}
	}
	return WinnerNone
}

// SelectorVisible adapts Driver.WaitForSelector into a race condition
func SelectorVisible(d Driver, selector string, timeout time.Duration) Condition {
	return func(ctx context.Context) error {
		return d.WaitForSelector(ctx, selector, timeout)
	}
}

// URLMatches adapts Driver.WaitForURL into a race condition
func URLMatches(d Driver, pattern *regexp.Regexp, timeout time.Duration) Condition {
	return func(ctx context.Context) error {
		return d.WaitForURL(ctx, pattern, timeout)
	}
}
