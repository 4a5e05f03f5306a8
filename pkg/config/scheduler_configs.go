package config

import (
	"fmt"
	"strings"
	"time"
)

// SchedulerConfig represents the scheduler configuration
type SchedulerConfig struct {
	Enabled           bool   `json:"enabled" yaml:"enabled"`
	ExpireOrdersCron  string `json:"expire_orders_cron" yaml:"expire_orders_cron"`
	StockCheckCron    string `json:"stock_check_cron" yaml:"stock_check_cron"`
	LowStockThreshold int    `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	ReleaseClaimsCron string `json:"release_claims_cron" yaml:"release_claims_cron"`
	StaleClaimMinutes int    `json:"stale_claim_minutes" yaml:"stale_claim_minutes"`
}

// NewSchedulerConfig creates a scheduler configuration with default values populated from environment variables
func NewSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Enabled:           getEnvBool("SCHEDULER_ENABLED", true),
		ExpireOrdersCron:  getEnv("SCHEDULER_EXPIRE_ORDERS_CRON", "0 0 * * *"),
		StockCheckCron:    getEnv("SCHEDULER_STOCK_CHECK_CRON", "*/30 * * * *"),
		LowStockThreshold: getEnvInt("SCHEDULER_LOW_STOCK_THRESHOLD", 5),
		ReleaseClaimsCron: getEnv("SCHEDULER_RELEASE_CLAIMS_CRON", "*/10 * * * *"),
		StaleClaimMinutes: getEnvInt("SCHEDULER_STALE_CLAIM_MINUTES", 30),
	}
}

// Validate validates scheduler configuration
func (sc *SchedulerConfig) Validate() error {
	if !sc.Enabled {
		return nil
	}
	if !isValidCronExpression(sc.ExpireOrdersCron) {
		return fmt.Errorf("%w: expire_orders_cron %q", ErrInvalidCron, sc.ExpireOrdersCron)
	}
	if sc.StockCheckCron != "" && !isValidCronExpression(sc.StockCheckCron) {
		return fmt.Errorf("%w: stock_check_cron %q", ErrInvalidCron, sc.StockCheckCron)
	}
	if sc.LowStockThreshold < 0 {
		return ErrInvalidValue
	}
	if sc.ReleaseClaimsCron != "" && !isValidCronExpression(sc.ReleaseClaimsCron) {
		return fmt.Errorf("%w: release_claims_cron %q", ErrInvalidCron, sc.ReleaseClaimsCron)
	}
	if sc.StaleClaimMinutes <= 0 {
		sc.StaleClaimMinutes = 30
	}
	return nil
}

// StaleClaimAge is how long a credential may stay reserved without an order
func (sc *SchedulerConfig) StaleClaimAge() time.Duration {
	return time.Duration(sc.StaleClaimMinutes) * time.Minute
}

// Validate validates server configuration
func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return ErrInvalidValue
	}
	return nil
}

// Validate validates application configuration
func (ac *AppConfig) Validate() error {
	if ac.LogLevel != "" && !isValidValue(strings.ToLower(ac.LogLevel), []string{"debug", "info", "warn", "error"}) {
		return ErrInvalidValue
	}
	return nil
}

// Validate validates runtime configuration
func (rc *RuntimeConfig) Validate() error {
	if rc.GracefulShutdownTimeout <= 0 {
		rc.GracefulShutdownTimeout = 30
	}
	return nil
}

// isValidCronExpression accepts the five-field standard form
func isValidCronExpression(cron string) bool {
	return len(strings.Fields(cron)) == 5
}
