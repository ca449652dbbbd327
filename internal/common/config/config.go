package config

import (
	"fmt"
	"time"
)

type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Server       ServerConfig            `mapstructure:"server"`
	Session      SessionConfig           `mapstructure:"session"`
	Baseline     BaselineConfig          `mapstructure:"baseline"`
	RegistryPath string                  `mapstructure:"registry_path"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress     string `mapstructure:"broker_address"`
	UsePlaintext      bool   `mapstructure:"use_plaintext"`
	ConnectionTimeout int    `mapstructure:"connection_timeout"` // milliseconds
	RequestTimeout    int    `mapstructure:"request_timeout"`    // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type ServerConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	EnableCORS bool   `mapstructure:"enable_cors"`
	Debug      bool   `mapstructure:"debug"`
}

const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type SessionConfig struct {
	Backend    string `mapstructure:"backend"`
	TTL        int    `mapstructure:"ttl"` // seconds
	MaxEntries int    `mapstructure:"max_entries"`
}

func (s SessionConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

const (
	BaselineSourceDefault  = "default"
	BaselineSourceConfig   = "config"
	BaselineSourcePostgres = "postgres"
)

// BaselineConfig selects where the comparison reference values come from.
// With source "config" the two maps must cover all constructs and indicators.
type BaselineConfig struct {
	Source     string             `mapstructure:"source"`
	Table      string             `mapstructure:"table"`
	Constructs map[string]float64 `mapstructure:"constructs"`
	Indicators map[string]float64 `mapstructure:"indicators"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
