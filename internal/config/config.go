package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverNeo4j  = "neo4j"
)

// Config contains runtime settings for the server
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Host      string `env:"MCP_HOST" envDefault:"0.0.0.0"`
	Port      string `env:"PORT" envDefault:"8080"`
	SeedDemo  bool   `env:"SEED_DEMO" envDefault:"false"`

	Storage struct {
		Driver     string `env:"STORAGE_DRIVER" envDefault:"memory"`
		SQLitePath string `env:"SQLITE_PATH" envDefault:"plugplayers.db"`
	}
	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
		Prefix   string `env:"REDIS_PREFIX" envDefault:"plugplayers:"`
	}
	Lock struct {
		Distributed bool          `env:"LOCK_DISTRIBUTED" envDefault:"false"`
		TTL         time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	}
	Neo4j struct {
		URI            string        `env:"NEO4J_URI"`
		Username       string        `env:"NEO4J_USERNAME"`
		Password       string        `env:"NEO4J_PASSWORD"`
		Database       string        `env:"NEO4J_DATABASE"`
		MaxPoolSize    int           `env:"NEO4J_MAX_POOL_SIZE"`
		AcquireTimeout time.Duration `env:"NEO4J_ACQUIRE_TIMEOUT"`
	}
	Auth struct {
		Secret   string        `env:"JWT_SECRET"`
		TTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`
		LoginKey string        `env:"API_LOGIN_KEY"` // required on POST /api/tokens
	} // REST API is disabled without a secret
	Sheets struct {
		CredentialsPath string `env:"SHEETS_CREDENTIALS_PATH"`
		SpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	}
	Tracing struct {
		Endpoint string `env:"OTEL_ENDPOINT"`
	}
}

// Addr is the HTTP listen address
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// APIEnabled reports whether the REST API can issue and verify tokens
func (c Config) APIEnabled() bool {
	return c.Auth.Secret != ""
}

// SheetsEnabled reports whether the payment ledger export is configured
func (c Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// Load populates config from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missingVars []string

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("unknown LOG_FORMAT %q, want json or console", c.LogFormat)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			missingVars = append(missingVars, "SQLITE_PATH")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			missingVars = append(missingVars, "REDIS_ADDR")
		}
	case DriverNeo4j:
		if c.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if c.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if c.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q, want one of memory, sqlite, redis, neo4j", c.Storage.Driver)
	}

	if c.Lock.Distributed && c.Redis.Addr == "" && c.Storage.Driver != DriverRedis {
		missingVars = append(missingVars, "REDIS_ADDR")
	}
	if c.Auth.Secret != "" && c.Auth.LoginKey == "" {
		missingVars = append(missingVars, "API_LOGIN_KEY")
	}
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		if c.Sheets.CredentialsPath == "" {
			missingVars = append(missingVars, "SHEETS_CREDENTIALS_PATH")
		} else {
			missingVars = append(missingVars, "SHEETS_SPREADSHEET_ID")
		}
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}
	return nil
}
