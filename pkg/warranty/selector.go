package warranty

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/prober"
	"github.com/vunguyen00/Netflix/pkg/store"
)

// Pool is the consume-once credential pool
type Pool interface {
	// ClaimNext reserves the next available credential or returns store.ErrPoolEmpty
	ClaimNext(ctx context.Context) (*models.Credential, error)
	Delete(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
}

// Prober checks one credential on a browser
type Prober interface {
	Probe(ctx context.Context, d browser.Driver, t prober.Target, hooks prober.Hooks) (prober.Verdict, error)
}

// SelectionState tells a found replacement from an exhausted pool
type SelectionState int

const (
	SelectionExhausted SelectionState = iota
	SelectionFound
)

// Selection is the outcome of Find
type Selection struct {
	State      SelectionState
	Credential *models.Credential
	// Inspected counts the credentials probed, the returned one included
	Inspected int
}

// Selector walks the pool until a credential probes fully live
type Selector struct {
	pool   Pool
	prober Prober
}

// NewSelector creates a selector
func NewSelector(pool Pool, p Prober) *Selector {
	return &Selector{pool: pool, prober: p}
}

// Find probes pool credentials one at a time in pool order. Rejected
// credentials are deleted; the first live one is returned still reserved,
// and the caller either consumes it with the order update or releases it.
// A credential whose probe was aborted by an infrastructure error goes back
// to the pool and the error is returned.
func (s *Selector) Find(ctx context.Context, d browser.Driver, sink Sink) (Selection, error) {
	var sel Selection
	if sink == nil {
		sink = Discard
	}

	for {
		if err := ctx.Err(); err != nil {
			return sel, err
		}

		cred, err := s.pool.ClaimNext(ctx)
		if errors.Is(err, store.ErrPoolEmpty) {
			sel.State = SelectionExhausted
			return sel, nil
		}
		if err != nil {
			return sel, fmt.Errorf("failed to claim candidate: %w", err)
		}

		cctx := logger.WithCandidate(ctx, cred.Username)
		log := logger.FromContext(cctx)
		sink.Emit(msgTryingCandidate(cred.Username))

		v, err := s.prober.Probe(cctx, d, targetFor(cred), prober.Hooks{})
		// pool writes must land even if the run is being cancelled
		wctx := context.WithoutCancel(cctx)
		if err != nil {
			if rerr := s.pool.Release(wctx, cred.ID); rerr != nil {
				log.Error("Failed to release candidate", zap.Error(rerr))
			}
			return sel, fmt.Errorf("probe of candidate %s aborted: %w", cred.Username, err)
		}

		sel.Inspected++
		if v.Live() {
			log.Info("Candidate accepted")
			sel.State = SelectionFound
			sel.Credential = cred
			return sel, nil
		}

		if err := s.pool.Delete(wctx, cred.ID); err != nil {
			return sel, fmt.Errorf("failed to consume candidate %s: %w", cred.Username, err)
		}
		log.Info("Candidate rejected", zap.String("reason", string(v.Reason)))
		sink.Emit(msgCandidateRejected(cred.Username))
	}
}
