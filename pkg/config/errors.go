package config

import "errors"

// Configuration-related error definitions using sentinel errors pattern
var (
	// Generic errors
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidFormat  = errors.New("invalid configuration file format")

	// Configuration validation errors
	ErrMissingRequired = errors.New("missing required configuration item")
	ErrInvalidValue    = errors.New("invalid configuration value")

	// Section errors
	ErrServerConfig    = errors.New("server configuration error")
	ErrDatabaseConfig  = errors.New("database configuration error")
	ErrRedisConfig     = errors.New("redis configuration error")
	ErrBrowserConfig   = errors.New("browser configuration error")
	ErrTargetConfig    = errors.New("target site configuration error")
	ErrWarrantyConfig  = errors.New("warranty configuration error")
	ErrAuthConfig      = errors.New("auth configuration error")
	ErrTelegramConfig  = errors.New("telegram notification configuration error")
	ErrSchedulerConfig = errors.New("scheduler configuration error")
	ErrInvalidCron     = errors.New("invalid Cron expression")
)
