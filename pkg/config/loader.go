package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from configPath, falling back to defaults
// when the file does not exist. Environment variables override file values.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	config := &Config{}
	ext := filepath.Ext(configPath)

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: JSON parsing failed: %v", ErrInvalidFormat, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: YAML parsing failed: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	config.fillDefaults()
	mergeEnvVars(config)
	return config, nil
}

// SaveConfig writes config to configPath as JSON or YAML depending on the extension
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	ext := filepath.Ext(configPath)
	var data []byte
	var err error

	switch ext {
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	if err != nil {
		return fmt.Errorf("config serialization failed: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getDefaultConfigPath searches the working directory, then the user and system config directories
func getDefaultConfigPath() string {
	paths := []string{
		"./config.yaml",
		"./config.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".netflix-warranty", "config.yaml"),
			filepath.Join(homeDir, ".netflix-warranty", "config.json"),
		)
	}

	paths = append(paths,
		"/etc/netflix-warranty/config.yaml",
		"/etc/netflix-warranty/config.json",
	)

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./config.yaml"
}

// mergeEnvVars overlays environment variables onto a file-loaded configuration
func mergeEnvVars(config *Config) {
	applyEnvMappings(map[string]interface{}{
		"SERVER_PORT":    &config.Server.Port,
		"SERVER_ADDRESS": &config.Server.Address,

		"LOG_LEVEL": &config.App.LogLevel,
		"LOG_FILE":  &config.App.LogFile,
		"APP_ENV":   &config.App.Environment,

		"RUNTIME_GRACEFUL_SHUTDOWN_TIMEOUT": &config.Runtime.GracefulShutdownTimeout,

		"DATABASE_DRIVER":       &config.Database.Driver,
		"DATABASE_DSN":          &config.Database.DSN,
		"DATABASE_AUTO_MIGRATE": &config.Database.AutoMigrate,

		"REDIS_ENABLED":  &config.Redis.Enabled,
		"REDIS_ADDR":     &config.Redis.Addr,
		"REDIS_PASSWORD": &config.Redis.Password,
		"REDIS_DB":       &config.Redis.DB,

		"BROWSER_HEADLESS":              &config.Browser.Headless,
		"BROWSER_EXEC_PATH":             &config.Browser.ExecPath,
		"BROWSER_NAVIGATION_TIMEOUT_MS": &config.Browser.NavigationTimeoutMS,

		"TARGET_BASE_URL":      &config.Target.BaseURL,
		"TARGET_COOKIE_DOMAIN": &config.Target.CookieDomain,

		"WARRANTY_RUN_TIMEOUT": &config.Warranty.RunTimeoutSeconds,
		"WARRANTY_LOCK_TTL":    &config.Warranty.LockTTLSeconds,

		"JWT_SECRET":      &config.Auth.JWTSecret,
		"JWT_ISSUER":      &config.Auth.Issuer,
		"AUTH_DEV_BYPASS": &config.Auth.DevBypass,

		"RATE_LIMIT_ENABLED": &config.RateLimit.Enabled,
		"RATE_LIMIT_RPM":     &config.RateLimit.RequestsPerMinute,

		"TELEGRAM_ENABLED":   &config.Telegram.Enabled,
		"TELEGRAM_BOT_TOKEN": &config.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &config.Telegram.ChatID,

		"SCHEDULER_ENABLED":             &config.Scheduler.Enabled,
		"SCHEDULER_EXPIRE_ORDERS_CRON":  &config.Scheduler.ExpireOrdersCron,
		"SCHEDULER_LOW_STOCK_THRESHOLD": &config.Scheduler.LowStockThreshold,
		"SCHEDULER_RELEASE_CLAIMS_CRON": &config.Scheduler.ReleaseClaimsCron,
		"SCHEDULER_STALE_CLAIM_MINUTES": &config.Scheduler.StaleClaimMinutes,
	})

	if origins := os.Getenv("SERVER_ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = parseStringList(origins)
	}
}

func applyEnvMappings(envMappings map[string]interface{}) {
	for envKey, fieldPtr := range envMappings {
		value := os.Getenv(envKey)
		if value == "" {
			continue
		}
		switch ptr := fieldPtr.(type) {
		case *int:
			*ptr = getEnvInt(envKey, *ptr)
		case *string:
			*ptr = value
		case *bool:
			*ptr = value == "true" || value == "1"
		}
	}
}
