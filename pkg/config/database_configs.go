package config

import "strings"

// DatabaseConfig selects the gorm dialector and connection
type DatabaseConfig struct {
	Driver       string `json:"driver" yaml:"driver"` // sqlite, mysql
	DSN          string `json:"dsn" yaml:"dsn"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns" yaml:"max_idle_conns"`
	AutoMigrate  bool   `json:"auto_migrate" yaml:"auto_migrate"`
	LogQueries   bool   `json:"log_queries" yaml:"log_queries"`
}

// NewDatabaseConfig creates a database configuration with default values populated from environment variables
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:       getEnv("DATABASE_DRIVER", "sqlite"),
		DSN:          getEnv("DATABASE_DSN", "file:warranty.db?_busy_timeout=5000&_foreign_keys=on"),
		MaxOpenConns: getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
		MaxIdleConns: getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
		AutoMigrate:  getEnvBool("DATABASE_AUTO_MIGRATE", true),
		LogQueries:   getEnvBool("DATABASE_LOG_QUERIES", false),
	}
}

// Validate validates database configuration
func (dc *DatabaseConfig) Validate() error {
	if dc.DSN == "" {
		return ErrMissingRequired
	}
	dc.Driver = strings.ToLower(dc.Driver)
	if !isValidValue(dc.Driver, []string{"sqlite", "mysql"}) {
		return ErrInvalidValue
	}
	if dc.MaxOpenConns <= 0 {
		dc.MaxOpenConns = 10
	}
	if dc.MaxIdleConns < 0 {
		dc.MaxIdleConns = 0
	}
	return nil
}

// RedisConfig enables the distributed warranty lock
type RedisConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// NewRedisConfig creates a redis configuration with default values populated from environment variables
func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:   getEnvBool("REDIS_ENABLED", false),
		Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvInt("REDIS_DB", 0),
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "netflix:"),
	}
}

// Validate validates redis configuration
func (rc *RedisConfig) Validate() error {
	if !rc.Enabled {
		return nil
	}
	if rc.Addr == "" {
		return ErrMissingRequired
	}
	if rc.DB < 0 {
		return ErrInvalidValue
	}
	return nil
}
