package config

// TelegramConfig configures operator alerts
type TelegramConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	BotToken string `json:"bot_token" yaml:"bot_token"`
	ChatID   string `json:"chat_id" yaml:"chat_id"`
	Timeout  int    `json:"timeout" yaml:"timeout"` // seconds
	APIBase  string `json:"api_base" yaml:"api_base"`
}

// NewTelegramConfig creates a Telegram configuration with default values populated from environment variables
func NewTelegramConfig() *TelegramConfig {
	return &TelegramConfig{
		Enabled:  getEnvBool("TELEGRAM_ENABLED", false),
		BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		Timeout:  getEnvInt("TELEGRAM_TIMEOUT", 10),
		APIBase:  getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
	}
}

// Validate validates Telegram configuration
func (tc *TelegramConfig) Validate() error {
	if !tc.Enabled {
		return nil // disabled, nothing to check
	}
	if tc.BotToken == "" || tc.ChatID == "" {
		return ErrMissingRequired
	}
	if tc.Timeout <= 0 {
		tc.Timeout = 10
	}
	if tc.APIBase == "" {
		tc.APIBase = "https://api.telegram.org"
	}
	return nil
}

// AuthConfig holds the JWT verification settings
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret"`
	Issuer    string `json:"issuer" yaml:"issuer"`
	// DevBypass lets requests through without a token; refused outside development
	DevBypass bool `json:"dev_bypass" yaml:"dev_bypass"`
}

// NewAuthConfig creates an auth configuration with default values populated from environment variables
func NewAuthConfig() *AuthConfig {
	return &AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		Issuer:    getEnv("JWT_ISSUER", ""),
		DevBypass: getEnvBool("AUTH_DEV_BYPASS", false),
	}
}

// Validate validates auth configuration
func (ac *AuthConfig) Validate() error {
	if ac.JWTSecret == "" && !ac.DevBypass {
		return ErrMissingRequired
	}
	return nil
}

// RateLimitConfig throttles warranty triggers per client
type RateLimitConfig struct {
	Enabled           bool `json:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int  `json:"burst" yaml:"burst"`
}

// NewRateLimitConfig creates a rate limit configuration with default values populated from environment variables
func NewRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerMinute: getEnvInt("RATE_LIMIT_RPM", 6),
		Burst:             getEnvInt("RATE_LIMIT_BURST", 2),
	}
}

// Validate validates rate limit configuration
func (rc *RateLimitConfig) Validate() error {
	if !rc.Enabled {
		return nil
	}
	if rc.RequestsPerMinute <= 0 {
		return ErrInvalidValue
	}
	if rc.Burst <= 0 {
		rc.Burst = 1
	}
	return nil
}
