package config

import "time"

// BrowserConfig controls the headless Chrome used for probing
type BrowserConfig struct {
	Headless            bool   `json:"headless" yaml:"headless"`
	ExecPath            string `json:"exec_path" yaml:"exec_path"`
	UserAgent           string `json:"user_agent" yaml:"user_agent"`
	NavigationTimeoutMS int    `json:"navigation_timeout_ms" yaml:"navigation_timeout_ms"`
	ActionTimeoutMS     int    `json:"action_timeout_ms" yaml:"action_timeout_ms"`
	PollIntervalMS      int    `json:"poll_interval_ms" yaml:"poll_interval_ms"`
	QuietWindowMS       int    `json:"quiet_window_ms" yaml:"quiet_window_ms"`
	MaxInflight         int    `json:"max_inflight" yaml:"max_inflight"`
}

// NewBrowserConfig creates a browser configuration with default values populated from environment variables
func NewBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Headless:            getEnvBool("BROWSER_HEADLESS", true),
		ExecPath:            getEnv("BROWSER_EXEC_PATH", ""),
		UserAgent:           getEnv("BROWSER_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"),
		NavigationTimeoutMS: getEnvInt("BROWSER_NAVIGATION_TIMEOUT_MS", 30000),
		ActionTimeoutMS:     getEnvInt("BROWSER_ACTION_TIMEOUT_MS", 5000),
		PollIntervalMS:      getEnvInt("BROWSER_POLL_INTERVAL_MS", 300),
		QuietWindowMS:       500,
		MaxInflight:         2,
	}
}

// Validate validates browser configuration
func (bc *BrowserConfig) Validate() error {
	if bc.NavigationTimeoutMS <= 0 || bc.ActionTimeoutMS <= 0 || bc.PollIntervalMS <= 0 {
		return ErrInvalidValue
	}
	if bc.QuietWindowMS <= 0 {
		bc.QuietWindowMS = 500
	}
	if bc.MaxInflight < 0 {
		bc.MaxInflight = 2
	}
	return nil
}

func (bc *BrowserConfig) NavigationTimeout() time.Duration { return millis(bc.NavigationTimeoutMS) }
func (bc *BrowserConfig) ActionTimeout() time.Duration     { return millis(bc.ActionTimeoutMS) }
func (bc *BrowserConfig) PollInterval() time.Duration      { return millis(bc.PollIntervalMS) }
func (bc *BrowserConfig) QuietWindow() time.Duration       { return millis(bc.QuietWindowMS) }

// TargetConfig describes the streaming site the probes run against
type TargetConfig struct {
	BaseURL      string   `json:"base_url" yaml:"base_url"`
	CookieDomain string   `json:"cookie_domain" yaml:"cookie_domain"`
	PlanPath     string   `json:"plan_path" yaml:"plan_path"`
	// DeadPaths are landing paths that mean the session was signed out
	DeadPaths    []string `json:"dead_paths" yaml:"dead_paths"`

	LockPath              string `json:"lock_path" yaml:"lock_path"`
	SuccessPattern        string `json:"success_pattern" yaml:"success_pattern"`
	CreateLockSelector    string `json:"create_lock_selector" yaml:"create_lock_selector"`
	EditLockSelector      string `json:"edit_lock_selector" yaml:"edit_lock_selector"`
	ConfirmSelector       string `json:"confirm_selector" yaml:"confirm_selector"`
	PasswordInputSelector string `json:"password_input_selector" yaml:"password_input_selector"`
}

// NewTargetConfig creates a target configuration with default values populated from environment variables
func NewTargetConfig() *TargetConfig {
	return &TargetConfig{
		BaseURL:               getEnv("TARGET_BASE_URL", "https://www.netflix.com"),
		CookieDomain:          getEnv("TARGET_COOKIE_DOMAIN", ".netflix.com"),
		PlanPath:              "/changeplan",
		DeadPaths:             []string{"/login", "/account"},
		LockPath:              "/settings/lock",
		SuccessPattern:        `(?i)/settings/lock/pinentry`,
		CreateLockSelector:    `[data-uia="profile-lock-off+add-button"]`,
		EditLockSelector:      `[data-uia="profile-lock-page+edit-button"]`,
		ConfirmSelector:       `[data-uia="account-mfa-button-PASSWORD+PressableListItem"]`,
		PasswordInputSelector: `[data-uia="collect-password-input-modal-entry"]`,
	}
}

// Validate validates target configuration
func (tc *TargetConfig) Validate() error {
	required := []string{
		tc.BaseURL, tc.CookieDomain, tc.PlanPath, tc.LockPath, tc.SuccessPattern,
		tc.CreateLockSelector, tc.EditLockSelector, tc.ConfirmSelector, tc.PasswordInputSelector,
	}
	for _, v := range required {
		if v == "" {
			return ErrMissingRequired
		}
	}
	return nil
}

// PlanURL is the page only a signed-in session can reach
func (tc *TargetConfig) PlanURL() string { return tc.BaseURL + tc.PlanPath }

// LockURL is the profile lock settings page
func (tc *TargetConfig) LockURL() string { return tc.BaseURL + tc.LockPath }

// WarrantyConfig holds the prober timings and orchestrator limits
type WarrantyConfig struct {
	ButtonGraceMS      int `json:"button_grace_ms" yaml:"button_grace_ms"`
	FirstRaceMS        int `json:"first_race_ms" yaml:"first_race_ms"`
	InputRaceMS        int `json:"input_race_ms" yaml:"input_race_ms"`
	ShortRecheckMS     int `json:"short_recheck_ms" yaml:"short_recheck_ms"`
	FinalRecheckMS     int `json:"final_recheck_ms" yaml:"final_recheck_ms"`
	FinalWaitMS        int `json:"final_wait_ms" yaml:"final_wait_ms"`
	GraceMS            int `json:"grace_ms" yaml:"grace_ms"`
	RunTimeoutSeconds  int `json:"run_timeout_seconds" yaml:"run_timeout_seconds"`
	LockTTLSeconds     int `json:"lock_ttl_seconds" yaml:"lock_ttl_seconds"`
	ProgressBufferSize int `json:"progress_buffer_size" yaml:"progress_buffer_size"`
}

// NewWarrantyConfig creates a warranty configuration with default values populated from environment variables
func NewWarrantyConfig() *WarrantyConfig {
	return &WarrantyConfig{
		ButtonGraceMS:      4000,
		FirstRaceMS:        12000,
		InputRaceMS:        12000,
		ShortRecheckMS:     3000,
		FinalRecheckMS:     5000,
		FinalWaitMS:        20000,
		GraceMS:            7000,
		RunTimeoutSeconds:  getEnvInt("WARRANTY_RUN_TIMEOUT", 600),
		LockTTLSeconds:     getEnvInt("WARRANTY_LOCK_TTL", 900),
		ProgressBufferSize: 64,
	}
}

// Validate validates warranty configuration
func (wc *WarrantyConfig) Validate() error {
	for _, v := range []int{wc.ButtonGraceMS, wc.FirstRaceMS, wc.InputRaceMS, wc.ShortRecheckMS, wc.FinalRecheckMS, wc.FinalWaitMS, wc.GraceMS} {
		if v <= 0 {
			return ErrInvalidValue
		}
	}
	if wc.RunTimeoutSeconds <= 0 {
		return ErrInvalidValue
	}
	// the lock must outlive a run
	if wc.LockTTLSeconds < wc.RunTimeoutSeconds {
		wc.LockTTLSeconds = wc.RunTimeoutSeconds + 60
	}
	if wc.ProgressBufferSize <= 0 {
		wc.ProgressBufferSize = 64
	}
	return nil
}

func (wc *WarrantyConfig) RunTimeout() time.Duration {
	return time.Duration(wc.RunTimeoutSeconds) * time.Second
}

func (wc *WarrantyConfig) LockTTL() time.Duration {
	return time.Duration(wc.LockTTLSeconds) * time.Second
}
