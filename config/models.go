package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Store backends understood by the activities API.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds application configuration for both binaries.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Board    BoardConfig    `mapstructure:"board"`
	API      APIConfig      `mapstructure:"api"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.API.Port == 0 {
		return errors.New("api.port is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
	}
	if c.Board.SignupMessageTTL <= 0 || c.Board.UnregisterMessageTTL <= 0 {
		return errors.New("board message ttls must be positive")
	}
	if c.Board.CSRFKey != "" && len(c.Board.CSRFKey) != 32 {
		return errors.New("board.csrf_key must be exactly 32 bytes")
	}

	switch c.API.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if c.Postgres.Host == "" {
			return errors.New("postgres.host is required")
		}
	default:
		return fmt.Errorf("unknown api.store %q", c.API.Store)
	}
	return nil
}

// ServerAddr returns host:port for the board front end.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// APIAddr returns host:port for the activities API.
func (c Config) APIAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// BackendConfig points the board at the activities API.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BoardConfig tunes the board front end.
type BoardConfig struct {
	SignupMessageTTL     time.Duration `mapstructure:"signup_message_ttl"`
	UnregisterMessageTTL time.Duration `mapstructure:"unregister_message_ttl"`
	SessionIdleTimeout   time.Duration `mapstructure:"session_idle_timeout"`
	CSRFKey              string        `mapstructure:"csrf_key"`
	SecureCookie         bool          `mapstructure:"secure_cookie"`
}

// APIConfig contains options of the activities API.
type APIConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Store string `mapstructure:"store"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}
