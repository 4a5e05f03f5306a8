package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

// Job names, also used as the IDs of the default jobs
const (
	JobExpireOrders  = "expire_orders"
	JobStockCheck    = "stock_check"
	JobReleaseClaims = "release_claims"
)

// OrderExpirer marks lapsed orders expired
type OrderExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// PoolCounter reports the credential pool size
type PoolCounter interface {
	CountAvailable(ctx context.Context) (int64, error)
}

// ClaimReleaser returns credentials reserved by dead runs to the pool
type ClaimReleaser interface {
	ReleaseStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// StockAlerter is told when the pool runs low
type StockAlerter interface {
	LowStock(ctx context.Context, available int64, threshold int) error
}

// Dependencies are the collaborators of the maintenance jobs
type Dependencies struct {
	Orders  OrderExpirer
	Pool    PoolCounter
	Claims  ClaimReleaser
	Alerter StockAlerter
	Clock   clock.Clock
}

func defaultJobs(cfg *config.SchedulerConfig, deps Dependencies) []*ScheduledJob {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}

	var jobs []*ScheduledJob
	if deps.Orders != nil && cfg.ExpireOrdersCron != "" {
		jobs = append(jobs, &ScheduledJob{
			ID:   JobExpireOrders,
			Name: JobExpireOrders,
			Cron: cfg.ExpireOrdersCron,
			run:  expireOrders(deps.Orders, deps.Clock),
		})
	}
	if deps.Pool != nil && deps.Alerter != nil && cfg.StockCheckCron != "" {
		jobs = append(jobs, &ScheduledJob{
			ID:   JobStockCheck,
			Name: JobStockCheck,
			Cron: cfg.StockCheckCron,
			run:  stockCheck(deps.Pool, deps.Alerter, cfg.LowStockThreshold),
		})
	}

	if deps.Claims != nil && cfg.ReleaseClaimsCron != "" {
		jobs = append(jobs, &ScheduledJob{
			ID:   JobReleaseClaims,
			Name: JobReleaseClaims,
			Cron: cfg.ReleaseClaimsCron,
			run:  releaseClaims(deps.Claims, deps.Clock, cfg.StaleClaimAge()),
		})
	}

	logger.Info("Generated default jobs", zap.Int("count", len(jobs)))
	return jobs
}

func expireOrders(orders OrderExpirer, clk clock.Clock) JobFunc {
	return func(ctx context.Context) error {
		n, err := orders.ExpireOverdue(ctx, clk.Now())
		if err != nil {
			return fmt.Errorf("failed to expire orders: %w", err)
		}
		logger.Info("Expired overdue orders", zap.Int64("count", n))
		return nil
	}
}

func stockCheck(pool PoolCounter, alerter StockAlerter, threshold int) JobFunc {
	return func(ctx context.Context) error {
		n, err := pool.CountAvailable(ctx)
		if err != nil {
			return fmt.Errorf("failed to count pool: %w", err)
		}
		if n >= int64(threshold) {
			return nil
		}

		logger.Warn("Account pool running low", zap.Int64("available", n), zap.Int("threshold", threshold))
		return alerter.LowStock(ctx, n, threshold)
	}
}

func releaseClaims(claims ClaimReleaser, clk clock.Clock, maxAge time.Duration) JobFunc {
	return func(ctx context.Context) error {
		n, err := claims.ReleaseStale(ctx, clk.Now().Add(-maxAge))
		if err != nil {
			return fmt.Errorf("failed to release stale claims: %w", err)
		}
		if n > 0 {
			logger.Warn("Returned stale claims to the pool", zap.Int64("count", n))
		}
		return nil
	}
}
