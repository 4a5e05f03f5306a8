package warranty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/lock"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/prober"
)

// Orders is the order collaborator
type Orders interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	// ReplaceCredential consumes the reserved cred, updates the order's
	// credential fields and appends message to its history atomically
	ReplaceCredential(ctx context.Context, orderID string, cred *models.Credential, message string) error
}

// Runs stores run audits
type Runs interface {
	Save(ctx context.Context, run *models.WarrantyRun) error
}

// Alerter is told when a run found the pool empty
type Alerter interface {
	PoolExhausted(ctx context.Context, orderID string, inspected int) error
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithRuns records every run
func WithRuns(r Runs) Option {
	return func(o *Orchestrator) { o.runs = r }
}

// WithAlerter reports pool exhaustion
func WithAlerter(a Alerter) Option {
	return func(o *Orchestrator) { o.alerter = a }
}

// WithClock overrides the time source
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithLockTTL sets how long a run may hold its order lock
func WithLockTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) { o.lockTTL = ttl }
}

// Orchestrator runs warranty claims, one browser per run
type Orchestrator struct {
	launcher browser.Launcher
	prober   Prober
	selector *Selector
	orders   Orders
	locker   lock.Locker
	runs     Runs
	alerter  Alerter
	clock    clock.Clock
	lockTTL  time.Duration
}

// New creates an orchestrator
func New(launcher browser.Launcher, p Prober, pool Pool, orders Orders, locker lock.Locker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		launcher: launcher,
		prober:   p,
		selector: NewSelector(pool, p),
		orders:   orders,
		locker:   locker,
		clock:    clock.NewSystem(),
		lockTTL:  15 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run checks the order's credential and replaces it from the pool when it
// is no longer live. Progress is reported to sink as it happens.
func (o *Orchestrator) Run(ctx context.Context, orderID string, sink Sink) Result {
	return o.run(ctx, orderID, models.RunModeWarranty, sink)
}

// Switch replaces the order's credential without checking it first
func (o *Orchestrator) Switch(ctx context.Context, orderID string, sink Sink) Result {
	return o.run(ctx, orderID, models.RunModeSwitch, sink)
}

func (o *Orchestrator) run(ctx context.Context, orderID string, mode models.RunMode, sink Sink) Result {
	runID := uuid.NewString()
	ctx = logger.WithRunID(logger.WithOrderID(ctx, orderID), runID)
	log := logger.FromContext(ctx)
	rec := newRecorder(ctx, sink)
	started := o.clock.Now()

	release, err := o.locker.Acquire(ctx, "warranty:"+orderID, o.lockTTL)
	if err != nil {
		res := resultFor(StateError)
		res.RunID = runID
		if errors.Is(err, lock.ErrHeld) {
			res.Message = userMsgBusy
			res.Err = ErrRunInProgress
		} else {
			res.Err = fmt.Errorf("failed to acquire order lock: %w", err)
		}
		log.Warn("Warranty run not started", zap.Error(res.Err))
		return res
	}
	defer release()

	log.Info("Warranty run started", zap.String("mode", string(mode)))
	res := o.execute(ctx, orderID, mode, rec)
	res.RunID = runID
	res.Steps = rec.Steps()

	finished := o.clock.Now()
	fields := []zap.Field{
		zap.String("outcome", string(res.Outcome)),
		zap.Int("inspected", res.Inspected),
		logger.DurationField(finished.Sub(started).Milliseconds()),
	}
	switch {
	case errors.Is(res.Err, ErrOrderInactive):
		log.Warn("Warranty refused", append(fields, zap.Error(res.Err))...)
	case res.Err != nil:
		log.Error("Warranty run failed", append(fields, zap.Error(res.Err))...)
	default:
		log.Info("Warranty run finished", fields...)
	}

	o.audit(ctx, runID, orderID, mode, res, started, finished)
	if res.Outcome == OutcomeExhausted {
		o.alertExhausted(ctx, orderID, res.Inspected)
	}
	return res
}

func (o *Orchestrator) execute(ctx context.Context, orderID string, mode models.RunMode, rec *recorder) Result {
	log := logger.FromContext(ctx)

	order, err := o.orders.Get(ctx, orderID)
	if err != nil {
		res := resultFor(StateError)
		res.Err = fmt.Errorf("failed to load order: %w", err)
		return res
	}
	if mode == models.RunModeWarranty && !order.Active(o.clock.Now()) {
		res := resultFor(StateError)
		res.Message = userMsgInactive
		res.Err = fmt.Errorf("%w: status %s, expires %s", ErrOrderInactive, order.Status, order.ExpiresAt.Format(time.RFC3339))
		return res
	}

	state := StateCheckingCurrent
	if mode == models.RunModeSwitch {
		state = StateSearchingReplacement
	}
	transition := func(next State) {
		log.Debug("Warranty transition", zap.String("from", string(state)), zap.String("to", string(next)))
		state = next
	}

	var (
		winner    *models.Credential
		inspected int
	)
	err = browser.WithSession(ctx, o.launcher, func(d browser.Driver) error {
		if state == StateCheckingCurrent {
			rec.Emit(MsgCheckingCurrent)
			v, err := o.prober.Probe(ctx, d, targetForOrder(order), prober.Hooks{
				BeforePasswordCheck: func() { rec.Emit(MsgCheckingPassword) },
			})
			if err != nil {
				return fmt.Errorf("probe of current credential aborted: %w", err)
			}
			if v.Live() {
				transition(StateCurrentValid)
				return nil
			}
			log.Info("Current credential is dead", zap.String("reason", string(v.Reason)))
			transition(StateSearchingReplacement)
		}

		sel, err := o.selector.Find(ctx, d, rec)
		inspected = sel.Inspected
		if err != nil {
			return err
		}
		if sel.State == SelectionExhausted {
			rec.Emit(MsgExhausted)
			transition(StatePoolExhausted)
			return nil
		}

		// the winner is reserved until this write lands, so it must not be cut short
		wctx := context.WithoutCancel(ctx)
		if err := o.orders.ReplaceCredential(wctx, orderID, sel.Credential, historyMessage(mode, order, sel.Credential)); err != nil {
			if rerr := o.selector.pool.Release(wctx, sel.Credential.ID); rerr != nil {
				log.Error("Failed to release unassigned replacement",
					zap.String("candidate", sel.Credential.Username),
					zap.Error(rerr))
			}
			return fmt.Errorf("failed to assign replacement: %w", err)
		}
		winner = sel.Credential
		rec.Emit(MsgFoundValid)
		transition(StateReplacementFound)
		return nil
	})
	if err != nil {
		transition(StateError)
		res := resultFor(StateError)
		res.Err = err
		res.Inspected = inspected
		return res
	}

	res := resultFor(state)
	res.Inspected = inspected
	if winner != nil {
		res.NewIdentifier = winner.Username
	}
	return res
}

func historyMessage(mode models.RunMode, order *models.Order, cred *models.Credential) string {
	if mode == models.RunModeSwitch {
		return fmt.Sprintf("Account switched from %s to %s", order.AccountEmail, cred.Username)
	}
	return fmt.Sprintf("Warranty replaced %s with %s", order.AccountEmail, cred.Username)
}

func (o *Orchestrator) audit(ctx context.Context, runID, orderID string, mode models.RunMode, res Result, started, finished time.Time) {
	if o.runs == nil {
		return
	}

	steps, err := json.Marshal(res.Steps)
	if err != nil {
		steps = []byte("[]")
	}
	run := &models.WarrantyRun{
		ID:            runID,
		OrderID:       orderID,
		Mode:          mode,
		Outcome:       string(res.Outcome),
		NewIdentifier: res.NewIdentifier,
		Steps:         datatypes.JSON(steps),
		Inspected:     res.Inspected,
		StartedAt:     started,
		FinishedAt:    &finished,
		Duration:      finished.Sub(started).Milliseconds(),
	}
	if err := o.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.FromContext(ctx).Error("Failed to record warranty run", zap.Error(err))
	}
}

func (o *Orchestrator) alertExhausted(ctx context.Context, orderID string, inspected int) {
	if o.alerter == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := o.alerter.PoolExhausted(ctx, orderID, inspected); err != nil {
			logger.FromContext(ctx).Warn("Failed to send pool exhausted alert", zap.Error(err))
		}
	}()
}
