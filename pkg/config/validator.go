package config

import "fmt"

// ValidateConfig validates every section, wrapping failures with the section error
func (c *Config) ValidateConfig() error {
	c.fillDefaults()

	checks := []struct {
		sectionErr error
		validate   func() error
	}{
		{ErrServerConfig, c.Server.Validate},
		{ErrServerConfig, c.App.Validate},
		{ErrServerConfig, c.Runtime.Validate},
		{ErrDatabaseConfig, c.Database.Validate},
		{ErrRedisConfig, c.Redis.Validate},
		{ErrBrowserConfig, c.Browser.Validate},
		{ErrTargetConfig, c.Target.Validate},
		{ErrWarrantyConfig, c.Warranty.Validate},
		{ErrAuthConfig, c.Auth.Validate},
		{ErrServerConfig, c.RateLimit.Validate},
		{ErrTelegramConfig, c.Telegram.Validate},
		{ErrSchedulerConfig, c.Scheduler.Validate},
	}

	for _, check := range checks {
		if err := check.validate(); err != nil {
			return fmt.Errorf("%w: %w", check.sectionErr, err)
		}
	}
	return c.validateAcrossSections()
}

// validateAcrossSections checks settings that depend on another section
func (c *Config) validateAcrossSections() error {
	if c.Auth.DevBypass && !c.IsDevelopment() {
		return fmt.Errorf("%w: dev_bypass is only allowed when app.environment is development", ErrAuthConfig)
	}
	if c.Scheduler.Enabled && c.Scheduler.ReleaseClaimsCron != "" &&
		c.Scheduler.StaleClaimAge() <= c.Warranty.RunTimeout() {
		return fmt.Errorf("%w: stale_claim_minutes must exceed the warranty run timeout", ErrSchedulerConfig)
	}
	return nil
}

// isValidValue checks whether value is one of validValues
func isValidValue(value string, validValues []string) bool {
	for _, valid := range validValues {
		if value == valid {
			return true
		}
	}
	return false
}
