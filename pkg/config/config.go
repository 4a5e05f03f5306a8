package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration of the warranty service
type Config struct {
	Server    *ServerConfig    `json:"server" yaml:"server"`
	App       *AppConfig       `json:"app" yaml:"app"`
	Runtime   *RuntimeConfig   `json:"runtime" yaml:"runtime"`
	Database  *DatabaseConfig  `json:"database" yaml:"database"`
	Redis     *RedisConfig     `json:"redis" yaml:"redis"`
	Browser   *BrowserConfig   `json:"browser" yaml:"browser"`
	Target    *TargetConfig    `json:"target" yaml:"target"`
	Warranty  *WarrantyConfig  `json:"warranty" yaml:"warranty"`
	Auth      *AuthConfig      `json:"auth" yaml:"auth"`
	RateLimit *RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Telegram  *TelegramConfig  `json:"telegram" yaml:"telegram"`
	Scheduler *SchedulerConfig `json:"scheduler" yaml:"scheduler"`
}

// getDefaultConfig returns a configuration where every section holds its defaults
func getDefaultConfig() *Config {
	return &Config{
		Server:    NewServerConfig(),
		App:       NewAppConfig(),
		Runtime:   NewRuntimeConfig(),
		Database:  NewDatabaseConfig(),
		Redis:     NewRedisConfig(),
		Browser:   NewBrowserConfig(),
		Target:    NewTargetConfig(),
		Warranty:  NewWarrantyConfig(),
		Auth:      NewAuthConfig(),
		RateLimit: NewRateLimitConfig(),
		Telegram:  NewTelegramConfig(),
		Scheduler: NewSchedulerConfig(),
	}
}

// fillDefaults replaces sections missing from a config file with their defaults
func (c *Config) fillDefaults() {
	d := getDefaultConfig()
	if c.Server == nil {
		c.Server = d.Server
	}
	if c.App == nil {
		c.App = d.App
	}
	if c.Runtime == nil {
		c.Runtime = d.Runtime
	}
	if c.Database == nil {
		c.Database = d.Database
	}
	if c.Redis == nil {
		c.Redis = d.Redis
	}
	if c.Browser == nil {
		c.Browser = d.Browser
	}
	if c.Target == nil {
		c.Target = d.Target
	}
	if c.Warranty == nil {
		c.Warranty = d.Warranty
	}
	if c.Auth == nil {
		c.Auth = d.Auth
	}
	if c.RateLimit == nil {
		c.RateLimit = d.RateLimit
	}
	if c.Telegram == nil {
		c.Telegram = d.Telegram
	}
	if c.Scheduler == nil {
		c.Scheduler = d.Scheduler
	}
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App != nil && strings.EqualFold(c.App.Environment, "development")
}

// ServerConfig represents HTTP server settings
type ServerConfig struct {
	Port           int      `json:"port" yaml:"port"`
	Address        string   `json:"address" yaml:"address"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

// NewServerConfig creates a server configuration with default values populated from environment variables
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvInt("SERVER_PORT", 8080),
		Address:        getEnv("SERVER_ADDRESS", "0.0.0.0"),
		AllowedOrigins: parseStringList(getEnv("SERVER_ALLOWED_ORIGINS", "*")),
	}
}

// Addr returns the listen address
func (sc *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", sc.Address, sc.Port)
}

// AppConfig represents application configuration settings
type AppConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFile     string `json:"log_file" yaml:"log_file"`
	Environment string `json:"environment" yaml:"environment"`
}

// NewAppConfig creates an application configuration with default values populated from environment variables
func NewAppConfig() *AppConfig {
	return &AppConfig{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		Environment: getEnv("APP_ENV", "production"),
	}
}

// RuntimeConfig represents runtime limits
type RuntimeConfig struct {
	GracefulShutdownTimeout int `json:"graceful_shutdown_timeout" yaml:"graceful_shutdown_timeout"` // seconds
}

// NewRuntimeConfig creates a runtime configuration with default values populated from environment variables
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		GracefulShutdownTimeout: getEnvInt("RUNTIME_GRACEFUL_SHUTDOWN_TIMEOUT", 30),
	}
}

// ShutdownTimeout returns the graceful shutdown window
func (rc *RuntimeConfig) ShutdownTimeout() time.Duration {
	return time.Duration(rc.GracefulShutdownTimeout) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func parseStringList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
