// Package warranty repairs orders whose streaming credential stopped working
// by probing it and, when it is dead, awarding the first live credential from
// the pool.
package warranty

import (
	"errors"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/prober"
)

var (
	// ErrRunInProgress is returned when the order already has a run going
	ErrRunInProgress = errors.New("warranty already running")

	// ErrOrderInactive is returned when the order is not paid or has lapsed
	ErrOrderInactive = errors.New("order is not active")
)

// State is a step of the warranty state machine
type State string

const (
	StateCheckingCurrent      State = "checking_current"
	StateCurrentValid         State = "current_valid"
	StateSearchingReplacement State = "searching_replacement"
	StateReplacementFound     State = "replacement_found"
	StatePoolExhausted        State = "pool_exhausted"
	StateError                State = "error"
)

// Terminal reports whether the run stops in s
func (s State) Terminal() bool {
	switch s {
	case StateCurrentValid, StateReplacementFound, StatePoolExhausted, StateError:
		return true
	}
	return false
}

// Outcome is the caller-facing result of a run
type Outcome string

const (
	OutcomeStillValid Outcome = "still_valid"
	OutcomeReplaced   Outcome = "replaced"
	OutcomeExhausted  Outcome = "exhausted"
	OutcomeError      Outcome = "error"
)

// Progress messages, emitted in this order as the run advances
const (
	MsgCheckingCurrent  = "checking old account"
	MsgCheckingPassword = "checking password"
	MsgFoundValid       = "found valid account"
	MsgExhausted        = "exhausted pool"
)

func msgTryingCandidate(username string) string {
	return "trying candidate " + username
}

func msgCandidateRejected(username string) string {
	return "candidate " + username + " rejected"
}

// Messages shown to customers. Internal error text is only logged.
const (
	userMsgStillValid = "Your account is still working."
	userMsgReplaced   = "Your account has been replaced with a working one."
	userMsgExhausted  = "No replacement account is available right now. Please contact support."
	userMsgError      = "Warranty could not be completed. Please try again later."
	userMsgBusy       = "A warranty check for this order is already running."
	userMsgInactive   = "This order is not active, so it has no warranty."
)

// Result is the terminal outcome of a run
type Result struct {
	Outcome       Outcome  `json:"outcome"`
	Message       string   `json:"message"`
	NewIdentifier string   `json:"new_username,omitempty"`
	RunID         string   `json:"run_id,omitempty"`
	Steps         []string `json:"steps"`
	Inspected     int      `json:"inspected"`

	// Err is the internal cause of an error outcome, never sent to customers
	Err error `json:"-"`
}

func resultFor(state State) Result {
	switch state {
	case StateCurrentValid:
		return Result{Outcome: OutcomeStillValid, Message: userMsgStillValid}
	case StateReplacementFound:
		return Result{Outcome: OutcomeReplaced, Message: userMsgReplaced}
	case StatePoolExhausted:
		return Result{Outcome: OutcomeExhausted, Message: userMsgExhausted}
	default:
		return Result{Outcome: OutcomeError, Message: userMsgError}
	}
}

func targetFor(c *models.Credential) prober.Target {
	return prober.Target{
		Identifier: c.Username,
		Password:   c.Password,
		Session:    c.Cookies,
	}
}

func targetForOrder(o *models.Order) prober.Target {
	return prober.Target{
		Identifier: o.AccountEmail,
		Password:   o.AccountPassword,
		Session:    o.AccountCookies,
	}
}
